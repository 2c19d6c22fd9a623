// Package extract writes decoded records back to a destination directory.
//
// Writes happen in decode order. A failure on one record is reported and
// does not abort the remaining writes; the caller receives every per-record
// error alongside the list of paths that were written.
package extract

import (
	"os"
	"path/filepath"

	"srcbundle/internal/decode"
	"srcbundle/internal/filelock"
	"srcbundle/internal/models"
)

// Options controls materialization.
type Options struct {
	// DryRun lists destination paths without writing anything.
	DryRun bool
}

// Result reports what a materialization run did.
type Result struct {
	// Written holds the destination-relative paths written, in decode order.
	Written []string

	// Errors holds one WriteError per failed record, in decode order.
	Errors []error
}

// Materialize writes each record under destDir, creating parent directories
// as needed and overwriting pre-existing files. Each write is atomic
// (temp file + rename), so an interrupted run never leaves a partial file.
// Every path is re-checked against escapes before the first write, even
// though the decoder validates them first: one unsafe path anywhere in the
// document means nothing gets written at all.
func Materialize(records []models.FileRecord, destDir string, opts Options) (*Result, error) {
	for i, r := range records {
		if err := decode.CheckPath(r.RelPath, i); err != nil {
			return nil, err
		}
	}

	result := &Result{}
	for _, r := range records {
		target := filepath.Join(destDir, filepath.FromSlash(r.RelPath))
		if opts.DryRun {
			result.Written = append(result.Written, r.RelPath)
			continue
		}

		if err := filelock.AtomicWrite(target, []byte(r.Content)); err != nil {
			result.Errors = append(result.Errors, &models.WriteError{Path: r.RelPath, Err: err})
			continue
		}
		result.Written = append(result.Written, r.RelPath)
	}
	return result, nil
}

// DestinationExists reports whether destDir already contains any entries,
// so the caller can decide to prompt before overwriting.
func DestinationExists(destDir string) bool {
	entries, err := os.ReadDir(destDir)
	return err == nil && len(entries) > 0
}
