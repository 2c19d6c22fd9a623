// Package decode identifies which encoder produced a document and
// reconstructs the ordered sequence of file records from it.
//
// Detection inspects leading structure and fails closed: when no decoder's
// grammar matches, extraction reports a detection error rather than
// guessing. Structural formats (Structured, XML) take precedence over the
// Text and Markdown heuristics. Only documents produced with the default
// templates are decodable; custom templates make the grammar ambiguous with
// the content itself.
package decode

import (
	"bytes"
	"strings"

	"srcbundle/internal/models"
)

// Detect examines the leading bytes of data and selects the owning decoder's
// format. A DetectionError means extraction cannot proceed.
func Detect(data []byte, source string) (models.OutputFormat, error) {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), " \t\r\n")
	if len(trimmed) == 0 {
		return "", &models.DetectionError{Source: source}
	}

	switch trimmed[0] {
	case '[':
		return models.FormatStructured, nil
	case '{':
		return models.FormatStructuredLines, nil
	case '<':
		return models.FormatXML, nil
	}

	for _, line := range strings.Split(string(data), "\n") {
		if _, ok := matchTextHeader(line); ok {
			return models.FormatText, nil
		}
	}

	if looksLikeMarkdown(string(data)) {
		return models.FormatMarkdown, nil
	}

	return "", &models.DetectionError{Source: source}
}

// Decode detects the format of data and runs the matching decoder. Every
// decoded path is checked against traversal and absolute-path escapes
// before the records are returned; an unsafe path fails the whole document.
func Decode(data []byte, source string) ([]models.FileRecord, models.OutputFormat, error) {
	format, err := Detect(data, source)
	if err != nil {
		return nil, "", err
	}

	var records []models.FileRecord
	switch format {
	case models.FormatStructured:
		records, err = decodeStructured(data)
	case models.FormatStructuredLines:
		records, err = decodeStructuredLines(data)
	case models.FormatXML:
		records, err = decodeXML(data)
	case models.FormatText:
		records, err = decodeText(data)
	case models.FormatMarkdown:
		records, err = decodeMarkdown(data)
	}
	if err != nil {
		return nil, format, err
	}

	for i, r := range records {
		if err := CheckPath(r.RelPath, i); err != nil {
			return nil, format, err
		}
	}
	return records, format, nil
}

func looksLikeMarkdown(s string) bool {
	hasHeading := false
	hasFence := false
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if strings.HasPrefix(trimmed, "#") && strings.Contains(trimmed, "# ") {
			hasHeading = true
		}
		if strings.HasPrefix(trimmed, "```") {
			hasFence = true
		}
		if hasHeading && hasFence {
			return true
		}
	}
	return false
}
