package encode

import (
	"strings"

	"srcbundle/internal/models"
)

const sectionRule = "--------------------"

// tableOfContents renders the derived table-of-contents prefix for the Text
// and Markdown formats. The section is derived from the admitted records,
// never stored, and the decoders skip it structurally.
func tableOfContents(records []models.FileRecord, format models.OutputFormat) string {
	var sb strings.Builder
	if format == models.FormatMarkdown {
		sb.WriteString("## Table of Contents\n")
		for _, r := range records {
			sb.WriteString("- [")
			sb.WriteString(r.RelPath)
			sb.WriteString("](#")
			sb.WriteString(markdownAnchor(r.RelPath))
			sb.WriteString(")\n")
		}
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString("Table of Contents:\n")
	for _, r := range records {
		sb.WriteString("- ")
		sb.WriteString(r.RelPath)
		sb.WriteString("\n")
	}
	sb.WriteString("\n" + sectionRule + "\n")
	return sb.String()
}

// markdownAnchor derives a GitHub-style heading anchor: lowercase, spaces to
// dashes, everything outside [a-z0-9-] dropped.
func markdownAnchor(heading string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
