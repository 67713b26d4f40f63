// Package label canonicalizes column headers and placeholder keys into a
// single comparable key space.
//
// Two labels refer to the same field when their normalized forms are equal:
//
//	label.Normalize(" Nombre ") == label.Normalize("#NOMBRE") // "nombre"
package label

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize returns the comparison key for a raw label.
//
// Surrounding whitespace is trimmed, a leading '#' is removed, every run of
// internal whitespace collapses to a single space and the result is case
// folded without regard to locale. Normalize is idempotent.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "#") {
		s = strings.TrimSpace(s[1:])
	}
	if s == "" {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")

	// A Caser carries state and must not be shared between goroutines.
	return cases.Fold().String(s)
}

// Equal reports whether two labels normalize to the same key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
