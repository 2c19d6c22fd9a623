package models

import "fmt"

// ConfigError reports an invalid or contradictory configuration, such as
// enabling pairing together with a table of contents. Configuration errors
// abort the run before any output is produced.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// DetectionError reports that no decoder's grammar matched the input.
// Detection fails closed; extraction never guesses a format.
type DetectionError struct {
	Source string
}

func (e *DetectionError) Error() string {
	if e.Source == "" {
		return "could not detect document format"
	}
	return fmt.Sprintf("could not detect document format of %s", e.Source)
}

// MalformedError reports that a decoder matched a format but found invalid
// structure, such as an unterminated header or non-well-formed XML. Either
// Line or Offset locates the problem, depending on the format.
type MalformedError struct {
	Format OutputFormat
	Line   int
	Offset int64
	Reason string
}

func (e *MalformedError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("malformed %s document at line %d: %s", e.Format, e.Line, e.Reason)
	case e.Offset > 0:
		return fmt.Sprintf("malformed %s document at byte %d: %s", e.Format, e.Offset, e.Reason)
	default:
		return fmt.Sprintf("malformed %s document: %s", e.Format, e.Reason)
	}
}

// UnsafePathError reports a decoded path that is absolute or escapes the
// destination root via ".." segments. Extraction aborts before any write.
type UnsafePathError struct {
	Path  string
	Index int
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("unsafe path %q in record %d", e.Path, e.Index)
}

// WriteError reports a failed write for a single record during
// materialization. Write failures are isolated; siblings still get written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
