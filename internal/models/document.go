package models

import (
	"fmt"
	"strings"
)

// OutputFormat identifies the document layout used to bundle records.
type OutputFormat string

const (
	// FormatText emits template-framed plain text (default delimiters
	// "--- path ---" / "--- end path ---").
	FormatText OutputFormat = "text"

	// FormatMarkdown emits "## path" headings with fenced code blocks.
	FormatMarkdown OutputFormat = "markdown"

	// FormatXML emits a <repository> element with one <file> per record.
	FormatXML OutputFormat = "xml"

	// FormatStructured emits a JSON array of per-file objects. This is the
	// only format with a context-free grammar and the format of choice for
	// byte-exact round trips.
	FormatStructured OutputFormat = "json"

	// FormatStructuredLines emits one JSON object per line (JSONL).
	FormatStructuredLines OutputFormat = "jsonl"
)

// ParseFormat maps a user-supplied format name to an OutputFormat.
func ParseFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "xml":
		return FormatXML, nil
	case "json":
		return FormatStructured, nil
	case "jsonl":
		return FormatStructuredLines, nil
	default:
		return "", &ConfigError{Reason: fmt.Sprintf("unknown output format %q", name)}
	}
}

// FormatForOutputPath infers the output format from the output file
// extension, defaulting to text.
func FormatForOutputPath(outputPath string) OutputFormat {
	lower := strings.ToLower(outputPath)
	switch {
	case strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".markdown"):
		return FormatMarkdown
	case strings.HasSuffix(lower, ".xml"):
		return FormatXML
	case strings.HasSuffix(lower, ".json"):
		return FormatStructured
	case strings.HasSuffix(lower, ".jsonl"):
		return FormatStructuredLines
	default:
		return FormatText
	}
}

// Document is the ordered set of records to bundle plus the rendering
// options that shape the output. Record order is discovery order and is
// preserved through encode and decode.
type Document struct {
	Records []FileRecord

	Format OutputFormat

	// HeaderTemplate and FooterTemplate frame each record for the Text and
	// Markdown formats. Empty means the format default. Setting either to a
	// non-default value makes the output non-decodable.
	HeaderTemplate string
	FooterTemplate string

	// GlobalHeaderTemplate and GlobalFooterTemplate bracket the whole
	// document exactly once, regardless of how many source roots
	// contributed records.
	GlobalHeaderTemplate string
	GlobalFooterTemplate string

	// TableOfContents and IncludeTree request derived prefix sections.
	// Whole-document mode only; both are skipped structurally on decode.
	TableOfContents bool
	IncludeTree     bool

	// TreeRoot labels the root line of the folder tree section.
	TreeRoot string

	// MaxTotalTokens is the token budget for the encoded document.
	// Zero means unlimited.
	MaxTotalTokens int

	// MaxFileSize replaces any larger record with MaxSizePlaceholder.
	// Zero means no limit.
	MaxFileSize int64

	// MaxSizePlaceholder is the template rendered in place of an oversized
	// record's header, body, and footer.
	MaxSizePlaceholder string
}

// Stats summarizes a combine run for display and for global template
// placeholders.
type Stats struct {
	TotalFiles        int
	TotalDiscovered   int
	TotalSizeBytes    int64
	TotalLines        int
	TotalTokens       int
	TokensApprox      bool
	TokenLimitReached bool
	FilesByExtension  map[string]int
}
