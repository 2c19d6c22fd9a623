// Package encode renders an ordered set of file records into one
// self-describing document in any of the supported output formats, and
// implements the pairing assembler that emits one document per matched
// source/header group.
//
// Encoding never reorders records. The token budget is threaded through the
// record loop as an explicit accumulator so the truncation boundary is a
// pure function of record order and costs.
package encode

import (
	"strings"

	"srcbundle/internal/models"
	"srcbundle/internal/render"
	"srcbundle/internal/tokens"
)

// Default record-framing templates. These are the only delimiters the text
// decoder understands; overriding them produces output that can no longer be
// extracted.
const (
	DefaultTextHeader = "--- {{FILENAME}} ---\n"
	DefaultTextFooter = "\n--- end {{FILENAME}} ---\n"

	DefaultMarkdownHeader = "## {{FILENAME}}\n\n"
)

// Decodable reports whether a document rendered with these options uses a
// grammar the decoder can invert. Structured and XML layouts always are;
// Text and Markdown only with the default header/footer templates.
func Decodable(doc *models.Document) bool {
	switch doc.Format {
	case models.FormatText, models.FormatMarkdown:
		return doc.HeaderTemplate == "" && doc.FooterTemplate == ""
	default:
		return true
	}
}

// Result carries the rendered document together with the run statistics
// accumulated while encoding.
type Result struct {
	Output string
	Stats  models.Stats
}

// Encode renders doc into a single document string. counter estimates token
// costs for the budget fold and the aggregate placeholders; nil defaults to
// tokens.Words.
func Encode(doc *models.Document, counter tokens.Counter) (*Result, error) {
	if counter == nil {
		counter = tokens.Words
	}

	if err := checkUniquePaths(doc.Records); err != nil {
		return nil, err
	}

	switch doc.Format {
	case models.FormatStructured, models.FormatStructuredLines:
		return encodeStructured(doc, counter)
	case models.FormatXML:
		return encodeXML(doc, counter)
	case models.FormatText, models.FormatMarkdown, "":
		return encodeTemplated(doc, counter)
	default:
		return nil, &models.ConfigError{Reason: "unknown output format " + string(doc.Format)}
	}
}

// segment is one record's fully rendered contribution to the document.
type segment struct {
	record      models.FileRecord
	text        string
	placeholder bool
	tokenCost   int
	lineCost    int
}

// budget is the running token total threaded through the record loop.
// Admission is decided before a record is rendered into the output; partial
// records are never emitted.
type budget struct {
	limit    int
	used     int
	admitted int
	reached  bool
}

func (b *budget) admit(cost int) bool {
	if b.reached {
		return false
	}
	if b.limit > 0 && b.admitted > 0 && b.used+cost > b.limit {
		b.reached = true
		return false
	}
	b.used += cost
	b.admitted++
	return true
}

// buildSegments renders every record's segment for the chosen format and
// runs the budget fold over them in record order. seg.text is empty for
// structured formats, where the record itself is serialized later.
func buildSegments(doc *models.Document, counter tokens.Counter, renderSeg func(models.FileRecord, bool) (string, int)) ([]segment, *budget, error) {
	b := &budget{limit: doc.MaxTotalTokens, used: overheadTokens(doc, counter)}

	var segs []segment
	for _, r := range doc.Records {
		oversized := doc.MaxFileSize > 0 && r.Size > doc.MaxFileSize
		if oversized && doc.MaxSizePlaceholder == "" {
			continue
		}

		text, cost := renderSeg(r, oversized)
		seg := segment{
			record:      r,
			text:        text,
			placeholder: oversized,
			tokenCost:   cost,
			lineCost:    models.CountLines(text),
		}
		if !b.admit(seg.tokenCost) {
			break
		}
		segs = append(segs, seg)
	}
	return segs, b, nil
}

// overheadTokens charges the derived sections and global templates against
// the budget before any record is admitted. Global templates are priced
// with zero-valued stats, since the real totals are not known until the
// fold finishes; the charged cost can differ from the final render by the
// width of the aggregate values, so the budget is approximate near the
// boundary when aggregate placeholders appear in global templates.
func overheadTokens(doc *models.Document, counter tokens.Counter) int {
	total := 0
	if doc.TableOfContents {
		n, _ := counter(tableOfContents(doc.Records, doc.Format))
		total += n
	}
	if doc.IncludeTree {
		n, _ := counter(treeSection(doc.Records, doc.TreeRoot, doc.Format))
		total += n
	}
	provisional := render.DocumentContext(models.Stats{})
	if doc.GlobalHeaderTemplate != "" {
		n, _ := counter(render.Render(doc.GlobalHeaderTemplate, provisional))
		total += n
	}
	if doc.GlobalFooterTemplate != "" {
		n, _ := counter(render.Render(doc.GlobalFooterTemplate, provisional))
		total += n
	}
	return total
}

// assemble stitches the global header, derived sections, record segments,
// and global footer into the final document, rendering the global templates
// with the aggregate statistics.
func assemble(doc *models.Document, segs []segment, stats models.Stats) string {
	docCtx := render.DocumentContext(stats)

	var sb strings.Builder
	if doc.GlobalHeaderTemplate != "" {
		sb.WriteString(render.Render(doc.GlobalHeaderTemplate, docCtx))
	}
	if doc.IncludeTree {
		sb.WriteString(treeSection(recordsOf(segs), doc.TreeRoot, doc.Format))
	}
	if doc.TableOfContents {
		sb.WriteString(tableOfContents(recordsOf(segs), doc.Format))
	}
	for _, seg := range segs {
		sb.WriteString(seg.text)
	}
	if doc.GlobalFooterTemplate != "" {
		sb.WriteString(render.Render(doc.GlobalFooterTemplate, docCtx))
	}
	return sb.String()
}

// collectStats folds the admitted segments into the document statistics.
// Placeholder segments stand in for files that were not included, so they
// do not count toward the totals.
func collectStats(doc *models.Document, segs []segment, b *budget) models.Stats {
	stats := models.Stats{
		TotalDiscovered:  len(doc.Records),
		FilesByExtension: make(map[string]int),
	}
	for _, seg := range segs {
		if seg.placeholder {
			continue
		}
		stats.TotalFiles++
		stats.TotalSizeBytes += seg.record.Size
		stats.TotalTokens += seg.record.Tokens
		stats.TokensApprox = stats.TokensApprox || seg.record.TokensApprox
		if seg.lineCost > 0 {
			stats.TotalLines += seg.lineCost
		} else {
			// Structured segments are serialized later; count content lines.
			stats.TotalLines += seg.record.LineCount
		}
		stats.FilesByExtension["."+seg.record.Ext()]++
	}
	for _, tmpl := range []string{doc.GlobalHeaderTemplate, doc.GlobalFooterTemplate} {
		if tmpl != "" {
			stats.TotalLines += models.CountLines(tmpl)
		}
	}
	stats.TokenLimitReached = b.reached
	return stats
}

func recordsOf(segs []segment) []models.FileRecord {
	records := make([]models.FileRecord, 0, len(segs))
	for _, seg := range segs {
		records = append(records, seg.record)
	}
	return records
}

func checkUniquePaths(records []models.FileRecord) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.RelPath]; dup {
			return &models.ConfigError{Reason: "duplicate record path " + r.RelPath}
		}
		seen[r.RelPath] = struct{}{}
	}
	return nil
}
