package fill

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// nameTokenRe matches $Field and $Field[index]. The index group accepts any
// text so that malformed indexes evaluate to the empty string instead of
// leaking into the output.
var nameTokenRe = regexp.MustCompile(`\$([^$\[\]]+)(?:\[([^\]]*)\])?`)

// HasExpressions reports whether tmpl contains at least one $Field token.
func HasExpressions(tmpl string) bool {
	return nameTokenRe.MatchString(tmpl)
}

// Evaluate expands the $Field and $Field[index] tokens of tmpl against t.
//
// A token without index yields the whole value. With an index the value is
// split on whitespace and the zero-based part is returned. Missing fields,
// out-of-range and malformed indexes yield "". Text outside tokens is copied
// unchanged.
//
// A field name may contain spaces. The longest run of leading words that
// names a known field is used and the remaining words are copied as text, so
// "$Nombre $Apellido" and "$Fecha de inicio" both behave as expected.
func Evaluate(tmpl string, t Table) string {
	matches := nameTokenRe.FindAllStringSubmatchIndex(tmpl, -1)
	if len(matches) == 0 {
		return tmpl
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(tmpl[last:m[0]])
		last = m[1]

		run := tmpl[m[2]:m[3]]
		hasIndex := m[4] >= 0

		field := strings.TrimRightFunc(run, unicode.IsSpace)
		trailing := run[len(field):]

		name, rest := resolveField(field, t)
		value, _ := t.Lookup(name)

		switch {
		case !hasIndex:
			b.WriteString(value)
			b.WriteString(rest)
			b.WriteString(trailing)
		case rest == "" && trailing == "":
			b.WriteString(indexPart(value, tmpl[m[4]:m[5]]))
		default:
			// The index belongs to the trailing words, not to the field.
			b.WriteString(value)
			b.WriteString(rest)
			b.WriteString(trailing)
			b.WriteString(tmpl[m[4]-1 : m[5]+1])
		}
	}
	b.WriteString(tmpl[last:])
	return b.String()
}

// resolveField splits a multi-word field run into the longest known field
// name and the literal remainder. When no prefix is known the whole run is
// the field.
func resolveField(run string, t Table) (name, rest string) {
	if _, ok := t.Lookup(run); ok {
		return run, ""
	}

	ends := wordEnds(run)
	for i := len(ends) - 2; i >= 0; i-- {
		prefix := run[:ends[i]]
		if _, ok := t.Lookup(prefix); ok {
			return prefix, run[ends[i]:]
		}
	}
	return run, ""
}

// wordEnds returns the byte offsets at which each whitespace separated word
// of s ends.
func wordEnds(s string) []int {
	var ends []int
	inWord := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if inWord && space {
			ends = append(ends, i)
		}
		inWord = !space
	}
	if inWord {
		ends = append(ends, len(s))
	}
	return ends
}

func indexPart(value, index string) string {
	n, err := strconv.Atoi(index)
	if err != nil || n < 0 || strings.ContainsAny(index, "+-") {
		return ""
	}
	parts := strings.Fields(value)
	if n >= len(parts) {
		return ""
	}
	return parts[n]
}
