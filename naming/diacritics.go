package naming

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics replaces accented letters by their base letter. Input is
// decomposed first, so composed and decomposed forms give the same result.
// Characters without a decomposition pass through unchanged.
func StripDiacritics(s string) string {
	// Chained transformers are stateful; build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
