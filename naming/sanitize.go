package naming

import (
	"strings"
)

// Sanitize turns arbitrary text into a filename token. Whitespace runs
// become a single '_' and every character outside [A-Za-z0-9._-] is
// dropped after accents are stripped. The result is empty when nothing
// usable remains.
func Sanitize(s string) string {
	s = StripDiacritics(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	return strings.Map(func(r rune) rune {
		if isSafe(r) {
			return r
		}
		return -1
	}, s)
}

// MaxBaseLen is the longest base name Resolve returns, in bytes. It leaves
// room for a collision suffix, a template stem and an extension within the
// common 255 byte filename limit.
const MaxBaseLen = 200

// Truncate shortens a sanitized name to at most max bytes, dropping
// separators left dangling at the cut.
func Truncate(name string, max int) string {
	if len(name) <= max {
		return name
	}
	cut := name[:max]
	if trimmed := strings.TrimRight(cut, "_.-"); trimmed != "" {
		return trimmed
	}
	return cut
}

func isSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}
