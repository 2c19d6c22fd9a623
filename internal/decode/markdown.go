package decode

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"srcbundle/internal/models"
)

// Derived-section headings that must not become records.
var derivedSections = map[string]bool{
	"Table of Contents": true,
	"Project Structure": true,
}

// decodeMarkdown reconstructs records from a document in the default
// Markdown layout: a heading carrying the file path followed by a fenced
// code block with the content. The document is parsed as a real Markdown
// AST; metadata lines between a heading and its fence are ignored, and a
// heading with no fence before the next heading (such as the table of
// contents) produces no record.
func decodeMarkdown(data []byte) ([]models.FileRecord, error) {
	doc := goldmark.New().Parser().Parse(gtext.NewReader(data))

	var (
		records []models.FileRecord
		pending string
	)

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level < 2 {
				pending = ""
				return ast.WalkContinue, nil
			}
			heading := strings.TrimSpace(extractText(node, data))
			if heading == "" || derivedSections[heading] {
				pending = ""
			} else {
				pending = heading
			}

		case *ast.FencedCodeBlock:
			if pending == "" {
				return ast.WalkContinue, nil
			}
			records = append(records, models.NewFileRecord(pending, fencedContent(node, data), nil))
			pending = ""
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, &models.MalformedError{Format: models.FormatMarkdown, Reason: err.Error()}
	}

	if len(records) == 0 {
		return nil, &models.MalformedError{
			Format: models.FormatMarkdown,
			Reason: "no file sections found",
		}
	}
	return records, nil
}

// extractText collects the text segments under a node.
func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// fencedContent joins the lines of a fenced code block and drops the single
// trailing newline the encoder adds before the closing fence. This format
// cannot distinguish a body that ends with a newline from one that does not.
func fencedContent(n *ast.FencedCodeBlock, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(source[seg.Start:seg.Stop])
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
