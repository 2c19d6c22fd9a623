package decode

import (
	"regexp"
	"strings"

	"srcbundle/internal/models"
)

// scanState names the states of the text decoder's finite-state machine.
type scanState int

const (
	stateSeekingHeader scanState = iota
	stateInBody
)

// textHeaderRe matches the default text header line "--- path ---".
// Footer lines ("--- end path ---") are distinguished before this runs.
var textHeaderRe = regexp.MustCompile(`^--- (.+?) ---$`)

const textFooterPrefix = "--- end "

// matchTextHeader extracts the captured path from a default header line.
func matchTextHeader(line string) (string, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.HasPrefix(line, textFooterPrefix) {
		return "", false
	}
	m := textHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// decodeText scans a document produced with the default text templates.
// The scan is an explicit state machine: stateSeekingHeader ignores
// informational lines (table of contents, folder tree, oversized-file
// placeholders) until a header line starts a record; stateInBody accumulates
// body lines until the footer carrying the same path closes the record and
// re-enters stateSeekingHeader. Header-like lines inside a body are body
// text; only the matching footer ends a record. A record still open at end
// of input is an unterminated header and fails the document.
func decodeText(data []byte) ([]models.FileRecord, error) {
	lines := strings.Split(string(data), "\n")

	var (
		records    []models.FileRecord
		state      = stateSeekingHeader
		current    string
		headerLine int
		body       []string
	)

	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")

		switch state {
		case stateSeekingHeader:
			if path, ok := matchTextHeader(trimmed); ok {
				current = path
				headerLine = i + 1
				body = body[:0]
				state = stateInBody
			}

		case stateInBody:
			if trimmed == textFooterPrefix+current+" ---" {
				records = append(records, models.NewFileRecord(current, strings.Join(body, "\n"), nil))
				state = stateSeekingHeader
				continue
			}
			body = append(body, line)
		}
	}

	if state == stateInBody {
		return nil, &models.MalformedError{
			Format: models.FormatText,
			Line:   headerLine,
			Reason: "unterminated header for " + current,
		}
	}
	if len(records) == 0 {
		return nil, &models.MalformedError{
			Format: models.FormatText,
			Reason: "no file sections found",
		}
	}
	return records, nil
}
