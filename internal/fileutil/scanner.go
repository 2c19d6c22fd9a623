// Package fileutil discovers the files that feed the bundle encoder:
// recursive directory scanning with extension and folder filters, size
// bounds, depth limits, and a deterministic sort order.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ScanOptions configures discovery under one root folder.
type ScanOptions struct {
	// Recursive enables descending into subdirectories.
	Recursive bool

	// MaxDepth limits recursion depth (0 = unlimited, 1 = root only).
	MaxDepth int

	// AllowedExtensions restricts discovery to these dot-prefixed
	// extensions; empty admits everything. Case-insensitive.
	AllowedExtensions []string

	// ExcludeFilenames, ExcludeExtensions, and ExcludeFolders drop matches
	// by exact filename, dot-prefixed extension, and directory name.
	ExcludeFilenames  []string
	ExcludeExtensions []string
	ExcludeFolders    []string

	// MinSize and MaxSize bound file sizes in bytes (0 = unbounded).
	MinSize int64
	MaxSize int64

	// SortBy orders the result: "name" (default), "name-desc", "size",
	// or "mtime".
	SortBy string
}

// DiscoveredFile is one file found under a scan root.
type DiscoveredFile struct {
	// AbsPath is the path on disk.
	AbsPath string

	// RelPath is the posix-separated path relative to the scan root.
	RelPath string

	Size    int64
	ModTime time.Time
}

// ScanRoot walks root and returns the files admitted by opts, sorted.
func ScanRoot(root string, opts ScanOptions) ([]DiscoveredFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access root folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", root)
	}

	allowed := extSet(opts.AllowedExtensions)
	excludedExts := extSet(opts.ExcludeExtensions)
	excludedNames := stringSet(opts.ExcludeFilenames)
	excludedDirs := stringSet(opts.ExcludeFolders)

	var files []DiscoveredFile
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			if !opts.Recursive {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 && strings.Count(rel, "/")+1 >= opts.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		ext := strings.ToLower(filepath.Ext(name))
		switch {
		case excludedNames[name]:
			return nil
		case excludedExts[ext]:
			return nil
		case len(allowed) > 0 && !allowed[ext]:
			return nil
		}

		fi, statErr := d.Info()
		if statErr != nil {
			return nil // unreadable entry, skip
		}
		if opts.MinSize > 0 && fi.Size() < opts.MinSize {
			return nil
		}
		if opts.MaxSize > 0 && fi.Size() > opts.MaxSize {
			return nil
		}

		files = append(files, DiscoveredFile{
			AbsPath: path,
			RelPath: rel,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sortFiles(files, opts.SortBy)
	return files, nil
}

func sortFiles(files []DiscoveredFile, sortBy string) {
	switch sortBy {
	case "name-desc":
		sort.Slice(files, func(i, j int) bool { return files[i].RelPath > files[j].RelPath })
	case "size":
		sort.Slice(files, func(i, j int) bool {
			if files[i].Size != files[j].Size {
				return files[i].Size < files[j].Size
			}
			return files[i].RelPath < files[j].RelPath
		})
	case "mtime":
		sort.Slice(files, func(i, j int) bool {
			if !files[i].ModTime.Equal(files[j].ModTime) {
				return files[i].ModTime.Before(files[j].ModTime)
			}
			return files[i].RelPath < files[j].RelPath
		})
	default:
		sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	}
}

func extSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[strings.ToLower(ext)] = true
	}
	return set
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
