package decode

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"srcbundle/internal/models"
)

// decodeXML parses <file path="..."> elements in document order and
// unescapes their character data. Non-well-formed input is a hard decode
// failure carrying the byte offset.
func decodeXML(data []byte) ([]models.FileRecord, error) {
	d := xml.NewDecoder(bytes.NewReader(data))

	var records []models.FileRecord
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &models.MalformedError{
				Format: models.FormatXML,
				Offset: d.InputOffset(),
				Reason: err.Error(),
			}
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "file" {
			continue
		}

		var path string
		for _, attr := range start.Attr {
			if attr.Name.Local == "path" {
				path = attr.Value
			}
		}
		if path == "" {
			return nil, &models.MalformedError{
				Format: models.FormatXML,
				Offset: d.InputOffset(),
				Reason: "file element missing path attribute",
			}
		}

		content, err := collectElementText(d)
		if err != nil {
			return nil, err
		}
		records = append(records, models.NewFileRecord(path, trimWrapperNewlines(content), nil))
	}

	if len(records) == 0 {
		return nil, &models.MalformedError{
			Format: models.FormatXML,
			Reason: "no file elements found",
		}
	}
	return records, nil
}

// collectElementText reads tokens until the current element closes,
// concatenating its character data.
func collectElementText(d *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return "", &models.MalformedError{
				Format: models.FormatXML,
				Offset: d.InputOffset(),
				Reason: err.Error(),
			}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return sb.String(), nil
}

// trimWrapperNewlines removes the one leading and one trailing newline the
// encoder adds around element content, and only when both are present, so
// content that genuinely starts or ends with a newline survives when the
// other side is absent.
func trimWrapperNewlines(s string) string {
	if strings.HasPrefix(s, "\n") && strings.HasSuffix(s, "\n") && len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
