// Package render implements the placeholder substitution engine used by all
// templated output: per-file header/footer templates, global document
// templates, oversized-file placeholders, and paired output filenames.
//
// Placeholders have the form {{NAME}}. Substitution is a single
// left-to-right scan; replacement values are inserted literally and never
// re-scanned, so values containing {{...}} cannot trigger nested expansion.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"srcbundle/internal/models"
)

// Context maps placeholder names to their string values. A context is built
// fresh for every render call; values are record-specific and never reused
// across records.
type Context map[string]string

// FileContext builds the per-record context: FILENAME, EXT, STEM, DIR,
// DIR_SLUG, SIZE, TOKENS, LINE_COUNT.
func FileContext(r models.FileRecord) Context {
	return Context{
		"FILENAME":   r.RelPath,
		"EXT":        r.Ext(),
		"STEM":       r.Stem(),
		"DIR":        r.Dir(),
		"DIR_SLUG":   SlugDir(r.Dir()),
		"SIZE":       HumanSize(r.Size),
		"TOKENS":     strconv.Itoa(r.Tokens),
		"LINE_COUNT": strconv.Itoa(r.LineCount),
	}
}

// DocumentContext builds the per-document context used by global templates:
// FILE_COUNT, TOTAL_SIZE, TOTAL_TOKENS, TOTAL_LINES.
func DocumentContext(s models.Stats) Context {
	return Context{
		"FILE_COUNT":   strconv.Itoa(s.TotalFiles),
		"TOTAL_SIZE":   HumanSize(s.TotalSizeBytes),
		"TOTAL_TOKENS": strconv.Itoa(s.TotalTokens),
		"TOTAL_LINES":  strconv.Itoa(s.TotalLines),
	}
}

// Render substitutes every recognized placeholder in template with its
// value from ctx. Unrecognized placeholders are inert text and are left
// verbatim; rendering never fails.
func Render(template string, ctx Context) string {
	out, _ := render(template, ctx, false)
	return out
}

// RenderStrict is Render for templates where an unknown placeholder is a
// configuration mistake rather than content, such as the paired filename
// template. It returns a ConfigError naming the offending token.
func RenderStrict(template string, ctx Context) (string, error) {
	return render(template, ctx, true)
}

func render(template string, ctx Context, strict bool) (string, error) {
	if template == "" || !strings.Contains(template, "{{") {
		return template, nil
	}

	var sb strings.Builder
	sb.Grow(len(template))
	rest := template
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		close := strings.Index(rest[open:], "}}")
		if close < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		close += open

		sb.WriteString(rest[:open])
		token := rest[open : close+2]
		name := rest[open+2 : close]
		if value, ok := ctx[name]; ok {
			sb.WriteString(value)
		} else if strict {
			return "", &models.ConfigError{
				Reason: fmt.Sprintf("unknown placeholder %q in template", token),
			}
		} else {
			sb.WriteString(token)
		}
		rest = rest[close+2:]
	}
}
