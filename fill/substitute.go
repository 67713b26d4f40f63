package fill

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\[\[\s*([^\]]+?)\s*\]\]`)

// Result describes what a substitution touched. Keys are the raw keys as
// written in the text, de-duplicated, in order of first appearance.
type Result struct {
	Replaced  []string
	Unmatched []string
}

// Substitute replaces every [[key]] placeholder in text whose key is present
// in t. Placeholders with unknown keys are kept verbatim. Inserted values
// are not scanned again.
func Substitute(text string, t Table) (string, Result) {
	var res Result

	matches := placeholderRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, res
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	replaced := make(map[string]bool)
	unmatched := make(map[string]bool)

	for _, m := range matches {
		key := strings.TrimSpace(text[m[2]:m[3]])
		value, ok := t.Lookup(key)
		if !ok {
			if !unmatched[key] {
				unmatched[key] = true
				res.Unmatched = append(res.Unmatched, key)
			}
			continue
		}
		if !replaced[key] {
			replaced[key] = true
			res.Replaced = append(res.Replaced, key)
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(value)
		last = m[1]
	}

	if last == 0 {
		return text, res
	}
	b.WriteString(text[last:])
	return b.String(), res
}

// Keys returns the raw keys of all placeholders in text, in order of
// appearance, without de-duplication.
func Keys(text string) []string {
	matches := placeholderRe.FindAllStringSubmatch(text, -1)
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, strings.TrimSpace(m[1]))
	}
	return keys
}
