// Package textutils provides text normalization helpers shared by the
// cell caster and the exporters.
package textutils

import "strings"

// NormalizeWhitespace collapses every run of whitespace to a single space
// and trims both ends, so "  New   York " and "New York" compare equal.
// Unicode spaces such as U+00A0 count as whitespace.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitNonEmpty splits s on sep, normalizes every piece and drops the
// empty ones. An empty sep returns the normalized input as a single piece.
func SplitNonEmpty(s, sep string) []string {
	if sep == "" {
		if n := NormalizeWhitespace(s); n != "" {
			return []string{n}
		}
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, sep) {
		if n := NormalizeWhitespace(part); n != "" {
			out = append(out, n)
		}
	}
	return out
}
