package render

import "strings"

// SlugDir derives the DIR_SLUG placeholder value from a relative directory
// path. The whole path is lowercased and every character outside
// [a-z0-9_-], including path separators, becomes "-", so "Src/Utils"
// slugs to "src-utils" and the slug is always safe inside a filename.
// Runs of dashes collapse and leading/trailing dashes are trimmed.
// The bundle root ("" or ".") maps to the literal "root"; a path reduced to
// nothing maps to "unnamed".
func SlugDir(dir string) string {
	dir = strings.ReplaceAll(dir, "\\", "/")
	if dir == "" || dir == "." {
		return "root"
	}

	var sb strings.Builder
	sb.Grow(len(dir))
	for _, r := range strings.ToLower(dir) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}

	slug := sb.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "unnamed"
	}
	return slug
}
