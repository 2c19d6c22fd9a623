// Package display renders user-facing run summaries and tree views for the
// srcbundle commands. All summary output goes to stderr so document output
// on stdout stays clean.
package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"srcbundle/internal/models"
	"srcbundle/internal/render"
)

// PrintSummary writes the combine run summary: file count, total size,
// lines, tokens, and a per-extension breakdown.
func PrintSummary(w io.Writer, stats models.Stats, title string) {
	heading := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)
	heading.Fprintf(w, "=== %s ===\n", title)
	fmt.Fprintf(w, "Files Combined: %d of %d discovered\n", stats.TotalFiles, stats.TotalDiscovered)
	fmt.Fprintf(w, "Total Size: %s\n", render.HumanSize(stats.TotalSizeBytes))
	fmt.Fprintf(w, "Total Lines: %d\n", stats.TotalLines)

	tokenNote := ""
	if stats.TokensApprox {
		tokenNote = " (approximate)"
	}
	fmt.Fprintf(w, "Total Tokens: %d%s\n", stats.TotalTokens, tokenNote)

	if stats.TokenLimitReached {
		color.New(color.FgYellow).Fprintln(w, "Token limit reached: remaining files were omitted")
	}

	if len(stats.FilesByExtension) > 0 {
		fmt.Fprintln(w, "By Extension:")
		exts := make([]string, 0, len(stats.FilesByExtension))
		for ext := range stats.FilesByExtension {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		for _, ext := range exts {
			label := ext
			if label == "." {
				label = "(none)"
			}
			fmt.Fprintf(w, "  %s: %d\n", label, stats.FilesByExtension[ext])
		}
	}
}

// FormatMetadata renders the compact "2 files, 1.00 KB, 50 lines, 100
// tokens" summary used in single-line reports.
func FormatMetadata(files int, size int64, lines, tokenCount int) string {
	parts := []string{
		fmt.Sprintf("%d %s", files, plural(files, "file")),
		render.HumanSize(size),
		fmt.Sprintf("%d %s", lines, plural(lines, "line")),
		fmt.Sprintf("%d %s", tokenCount, plural(tokenCount, "token")),
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
