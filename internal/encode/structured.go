package encode

import (
	"encoding/json"
	"strings"

	"srcbundle/internal/models"
	"srcbundle/internal/render"
	"srcbundle/internal/tokens"
)

// structuredRecord is the wire shape of one record in the Structured
// formats: path and content plus the same metadata the render context
// exposes. This grammar is context-free, so it round-trips content
// byte-exactly, including embedded delimiter-like substrings.
type structuredRecord struct {
	Path          string `json:"path"`
	Content       string `json:"content"`
	Size          int64  `json:"size"`
	LineCount     int    `json:"line_count"`
	TokenEstimate int    `json:"token_estimate"`
}

// encodeStructured renders the JSON array and JSONL layouts. Header/footer
// and global templates do not apply: the output must stay machine-parseable.
func encodeStructured(doc *models.Document, counter tokens.Counter) (*Result, error) {
	renderSeg := func(r models.FileRecord, oversized bool) (string, int) {
		if oversized {
			placeholder := render.Render(doc.MaxSizePlaceholder, render.FileContext(r))
			cost, _ := counter(placeholder)
			return placeholder, cost
		}
		return "", r.Tokens
	}

	segs, b, err := buildSegments(doc, counter, renderSeg)
	if err != nil {
		return nil, err
	}

	out := make([]structuredRecord, 0, len(segs))
	for _, seg := range segs {
		r := seg.record
		sr := structuredRecord{
			Path:          r.RelPath,
			Content:       r.Content,
			Size:          r.Size,
			LineCount:     r.LineCount,
			TokenEstimate: r.Tokens,
		}
		if seg.placeholder {
			sr.Content = seg.text
		}
		out = append(out, sr)
	}

	var rendered string
	if doc.Format == models.FormatStructuredLines {
		var sb strings.Builder
		for _, sr := range out {
			line, err := json.Marshal(sr)
			if err != nil {
				return nil, err
			}
			sb.Write(line)
			sb.WriteString("\n")
		}
		rendered = sb.String()
	} else {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, err
		}
		rendered = string(data) + "\n"
	}

	stats := collectStats(doc, segs, b)
	return &Result{Output: rendered, Stats: stats}, nil
}
