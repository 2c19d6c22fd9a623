package encode

import (
	"strings"

	"srcbundle/internal/models"
	"srcbundle/internal/render"
	"srcbundle/internal/tokens"
)

// encodeXML renders a <repository> document with one <file> element per
// record. The path travels as an attribute, content as escaped character
// data; the decoder reverses exactly this escaping. Header and footer
// templates, when explicitly set, replace the default element framing;
// otherwise they are ignored for this format.
func encodeXML(doc *models.Document, counter tokens.Counter) (*Result, error) {
	renderSeg := func(r models.FileRecord, oversized bool) (string, int) {
		ctx := render.FileContext(r)

		body := r.Content
		if oversized {
			body = render.Render(doc.MaxSizePlaceholder, ctx)
		}

		var sb strings.Builder
		if doc.HeaderTemplate != "" {
			sb.WriteString(render.Render(doc.HeaderTemplate, ctx))
		} else {
			sb.WriteString(`<file path="`)
			sb.WriteString(escapeXMLAttr(r.RelPath))
			sb.WriteString("\">\n")
		}
		sb.WriteString(escapeXMLText(body))
		if doc.FooterTemplate != "" {
			sb.WriteString(render.Render(doc.FooterTemplate, ctx))
		} else {
			sb.WriteString("\n</file>\n")
		}

		text := sb.String()
		cost, _ := counter(text)
		return text, cost
	}

	segs, b, err := buildSegments(doc, counter, renderSeg)
	if err != nil {
		return nil, err
	}
	stats := collectStats(doc, segs, b)

	// The repository wrapper stands in for the global templates unless the
	// caller supplied its own. Derived text sections have no well-formed
	// home inside the wrapper and are dropped for this format.
	wrapped := *doc
	wrapped.TableOfContents = false
	wrapped.IncludeTree = false
	if wrapped.GlobalHeaderTemplate == "" {
		wrapped.GlobalHeaderTemplate = "<repository>\n"
	}
	if wrapped.GlobalFooterTemplate == "" {
		wrapped.GlobalFooterTemplate = "</repository>\n"
	}
	return &Result{Output: assemble(&wrapped, segs, stats), Stats: stats}, nil
}

// escapeXMLText escapes character data while keeping newlines literal, so
// the document stays human-readable. The decoder's XML parser reverses it.
func escapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// escapeXMLAttr escapes a double-quoted attribute value.
func escapeXMLAttr(s string) string {
	s = escapeXMLText(s)
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
