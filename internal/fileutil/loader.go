package fileutil

import (
	"fmt"
	"os"
	"strings"

	"srcbundle/internal/models"
	"srcbundle/internal/tokens"
)

// LoadOptions controls how discovered files become records.
type LoadOptions struct {
	// AddLineNumbers prefixes each content line with "N: ".
	AddLineNumbers bool

	// Counter estimates token counts; nil defaults to tokens.Words.
	Counter tokens.Counter
}

// LoadRecords reads each discovered file and builds its immutable record.
// Record order follows the discovery order.
func LoadRecords(files []DiscoveredFile, opts LoadOptions) ([]models.FileRecord, error) {
	records := make([]models.FileRecord, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.AbsPath, err)
		}

		content := string(data)
		if opts.AddLineNumbers {
			content = AddLineNumbers(content)
		}
		records = append(records, models.NewFileRecord(f.RelPath, content, opts.Counter))
	}
	return records, nil
}

// AddLineNumbers prefixes every line of content with its 1-based number.
func AddLineNumbers(content string) string {
	if content == "" {
		return content
	}

	trailing := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, line := range lines {
		lines[i] = fmt.Sprintf("%d: %s", i+1, line)
	}

	out := strings.Join(lines, "\n")
	if trailing {
		out += "\n"
	}
	return out
}
