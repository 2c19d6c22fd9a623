// Package models defines the data types shared across the srcbundle codec:
// file records, documents, output formats, run statistics, and the error
// kinds reported by encoding, decoding, and extraction.
package models

import (
	"path"
	"strings"

	"srcbundle/internal/tokens"
)

// FileRecord is one logical file flowing through the codec: a relative path,
// its already-processed text content, and metadata computed at construction.
// Records are immutable; re-processing content produces a new record.
type FileRecord struct {
	// RelPath is the posix-separated path relative to the source root.
	// Never absolute, never contains "." or ".." segments.
	RelPath string

	// Content is the file body as text.
	Content string

	// Size is the byte length of Content.
	Size int64

	// LineCount is the number of lines in Content (a trailing newline does
	// not start a new line).
	LineCount int

	// Tokens is the estimated token count of Content.
	Tokens int

	// TokensApprox reports whether Tokens is a length-based approximation.
	TokensApprox bool
}

// NewFileRecord builds a record for relPath with the given content,
// normalizing the path to posix separators and computing all metadata with
// the provided token counter. A nil counter defaults to tokens.Words.
func NewFileRecord(relPath, content string, counter tokens.Counter) FileRecord {
	if counter == nil {
		counter = tokens.Words
	}
	count, approx := counter(content)
	return FileRecord{
		RelPath:      NormalizePath(relPath),
		Content:      content,
		Size:         int64(len(content)),
		LineCount:    CountLines(content),
		Tokens:       count,
		TokensApprox: approx,
	}
}

// Ext returns the file extension without the leading dot, or "" when the
// filename has none.
func (r FileRecord) Ext() string {
	return strings.TrimPrefix(path.Ext(r.RelPath), ".")
}

// Stem returns the filename without directory or extension.
func (r FileRecord) Stem() string {
	base := path.Base(r.RelPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Dir returns the record's parent directory as a posix path, or "." for the
// root of the bundle.
func (r FileRecord) Dir() string {
	return path.Dir(r.RelPath)
}

// NormalizePath converts separators to "/" and strips a leading "./".
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(p, "./")
}

// CountLines counts the lines of s. Empty content has zero lines; a trailing
// newline terminates the final line rather than opening a new one.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}
