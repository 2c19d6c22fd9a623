package encode

import (
	"strings"

	"srcbundle/internal/models"
	"srcbundle/internal/render"
	"srcbundle/internal/tokens"
)

// encodeTemplated renders the Text and Markdown formats: for each record,
// header template, content, footer template, concatenated in record order.
// Markdown wraps content in a fenced code block keyed by the record's
// extension when the default templates are in effect.
func encodeTemplated(doc *models.Document, counter tokens.Counter) (*Result, error) {
	renderSeg := func(r models.FileRecord, oversized bool) (string, int) {
		ctx := render.FileContext(r)
		if oversized {
			text := render.Render(doc.MaxSizePlaceholder, ctx)
			if !strings.HasSuffix(text, "\n") {
				text += "\n"
			}
			cost, _ := counter(text)
			return text, cost
		}

		var text string
		if doc.Format == models.FormatMarkdown && doc.HeaderTemplate == "" && doc.FooterTemplate == "" {
			text = markdownSegment(r, ctx)
		} else {
			text = textSegment(r, ctx, doc.HeaderTemplate, doc.FooterTemplate)
		}
		cost, _ := counter(text)
		return text, cost
	}

	segs, b, err := buildSegments(doc, counter, renderSeg)
	if err != nil {
		return nil, err
	}
	stats := collectStats(doc, segs, b)
	return &Result{Output: assemble(doc, segs, stats), Stats: stats}, nil
}

func textSegment(r models.FileRecord, ctx render.Context, header, footer string) string {
	if header == "" {
		header = DefaultTextHeader
	}
	if footer == "" {
		footer = DefaultTextFooter
	}
	return render.Render(header, ctx) + r.Content + render.Render(footer, ctx)
}

// markdownSegment renders the default Markdown layout: a level-2 heading
// with the record path followed by a fenced code block whose info string is
// the file extension.
func markdownSegment(r models.FileRecord, ctx render.Context) string {
	var sb strings.Builder
	sb.WriteString(render.Render(DefaultMarkdownHeader, ctx))
	sb.WriteString("```")
	sb.WriteString(r.Ext())
	sb.WriteString("\n")
	sb.WriteString(r.Content)
	if !strings.HasSuffix(r.Content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```\n\n")
	return sb.String()
}
