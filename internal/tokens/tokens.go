// Package tokens provides token-count estimation for file content.
//
// Token counts drive the table-of-contents metadata and the max-total-token
// budget that limits how many files are admitted into a bundle. Two counters
// are available: a Unicode word-segmentation counter (UAX #29) and a cheap
// length-based approximation.
package tokens

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Counter estimates the number of tokens in text. The second return value
// reports whether the count is an approximation.
type Counter func(text string) (int, bool)

// Words counts tokens using UAX #29 word segmentation, skipping segments
// that are pure whitespace. This is the default counter.
func Words(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	count := 0
	seg := words.FromString(text)
	for seg.Next() {
		if !isBlank(seg.Value()) {
			count++
		}
	}
	return count, false
}

// Approximate estimates tokens as len(text)/4, the common rule of thumb for
// LLM tokenizers. Always flagged approximate.
func Approximate(text string) (int, bool) {
	return len(text) / 4, true
}

// ByName returns the counter registered under name ("words" or "approx").
// Unknown names fall back to Words.
func ByName(name string) Counter {
	if strings.EqualFold(name, "approx") {
		return Approximate
	}
	return Words
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
