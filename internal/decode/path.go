package decode

import (
	"strings"

	"srcbundle/internal/models"
)

// CheckPath rejects decoded paths that cannot be trusted for filesystem use:
// empty paths, absolute paths (posix or windows forms), and any "." or ".."
// segment. Decoded paths are never handed to the materializer without this
// check; unsafe paths are rejected outright, never silently repaired.
func CheckPath(p string, index int) error {
	if p == "" {
		return &models.UnsafePathError{Path: p, Index: index}
	}

	normalized := strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(normalized, "/") || hasDrivePrefix(normalized) {
		return &models.UnsafePathError{Path: p, Index: index}
	}

	for _, segment := range strings.Split(normalized, "/") {
		switch segment {
		case "", ".", "..":
			return &models.UnsafePathError{Path: p, Index: index}
		}
	}
	return nil
}

// hasDrivePrefix reports windows-style absolute paths such as "C:/" or
// "C:\" even when checked on a posix host.
func hasDrivePrefix(p string) bool {
	if len(p) < 3 {
		return false
	}
	c := p[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return isLetter && p[1] == ':' && (p[2] == '/' || p[2] == '\\')
}
