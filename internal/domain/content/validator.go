// Package content decides whether a free-text answer is meaningful enough to
// trigger an alert.
package content

import "strings"

// minMeaningfulLength is the shortest trimmed answer accepted as meaningful.
const minMeaningfulLength = 3

// placeholders are exact (lowercased, trimmed) answers treated as negations.
var placeholders = map[string]struct{}{
	"no":   {},
	"na":   {},
	"none": {},
	"nil":  {},
}

// IsMeaningful reports whether a free-text value should trigger an alert.
// The filter is conservative: it rejects empty, placeholder, and very short
// answers, but a creative negation of length >= 3 still passes (accepted
// false-positive risk).
func IsMeaningful(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	if _, ok := placeholders[v]; ok {
		return false
	}
	return len(v) >= minMeaningfulLength
}
