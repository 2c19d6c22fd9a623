package decode

import (
	"encoding/json"
	"fmt"
	"strings"

	"srcbundle/internal/models"
)

// structuredRecord mirrors the encoder's wire shape. Only path and content
// participate in reconstruction; the metadata fields are advisory and are
// recomputed from content.
type structuredRecord struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// decodeStructured deserializes a JSON array of per-file objects. This is
// the only decoder guaranteed to round-trip content byte-exactly.
func decodeStructured(data []byte) ([]models.FileRecord, error) {
	var raw []structuredRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &models.MalformedError{
			Format: models.FormatStructured,
			Reason: err.Error(),
		}
	}

	records := make([]models.FileRecord, 0, len(raw))
	for i, sr := range raw {
		if sr.Path == "" {
			return nil, &models.MalformedError{
				Format: models.FormatStructured,
				Reason: fmt.Sprintf("record %d is missing a path", i),
			}
		}
		records = append(records, models.NewFileRecord(sr.Path, sr.Content, nil))
	}
	return records, nil
}

// decodeStructuredLines deserializes one JSON object per non-blank line.
func decodeStructuredLines(data []byte) ([]models.FileRecord, error) {
	var records []models.FileRecord
	for i, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var sr structuredRecord
		if err := json.Unmarshal([]byte(line), &sr); err != nil {
			return nil, &models.MalformedError{
				Format: models.FormatStructuredLines,
				Line:   i + 1,
				Reason: err.Error(),
			}
		}
		if sr.Path == "" {
			return nil, &models.MalformedError{
				Format: models.FormatStructuredLines,
				Line:   i + 1,
				Reason: "record is missing a path",
			}
		}
		records = append(records, models.NewFileRecord(sr.Path, sr.Content, nil))
	}

	if len(records) == 0 {
		return nil, &models.MalformedError{
			Format: models.FormatStructuredLines,
			Reason: "no records found",
		}
	}
	return records, nil
}
