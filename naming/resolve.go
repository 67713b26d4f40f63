package naming

import (
	"fmt"
	"strings"

	"github.com/tsawler/docmerge/fill"
	"github.com/tsawler/docmerge/model"
)

// Source records which strategy produced a name.
type Source int

const (
	// SourceTemplate means the name template or name column was used.
	SourceTemplate Source = iota
	// SourceFirstValue means the first usable row value was used.
	SourceFirstValue
	// SourceFallback means the numbered fallback was used.
	SourceFallback
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceTemplate:
		return "template"
	case SourceFirstValue:
		return "first-value"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// FallbackPrefix starts every numbered fallback name.
const FallbackPrefix = "document_"

// Name is a resolved base name without extension.
type Name struct {
	Base   string
	Source Source
}

// Resolve chooses the base name for a row.
//
// A tmpl containing $Field tokens is evaluated with [fill.Evaluate]; any
// other non-empty tmpl names a column. If that yields nothing usable the
// row's values are tried in column order, and as a last resort a name built
// from index is returned. The result is never empty and never longer than
// [MaxBaseLen].
func Resolve(row model.Row, t fill.Table, tmpl string, index int) Name {
	if candidate := evaluateTemplate(tmpl, t); candidate != "" {
		if base := Sanitize(candidate); base != "" {
			return Name{Base: Truncate(base, MaxBaseLen), Source: SourceTemplate}
		}
	}

	for _, v := range row.Values() {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if base := Sanitize(v); base != "" {
			return Name{Base: Truncate(base, MaxBaseLen), Source: SourceFirstValue}
		}
	}

	return Name{Base: Fallback(index), Source: SourceFallback}
}

// Fallback returns the numbered placeholder name for index.
func Fallback(index int) string {
	return fmt.Sprintf("%s%04d", FallbackPrefix, index)
}

func evaluateTemplate(tmpl string, t fill.Table) string {
	if strings.TrimSpace(tmpl) == "" {
		return ""
	}
	if fill.HasExpressions(tmpl) {
		return strings.TrimSpace(fill.Evaluate(tmpl, t))
	}
	v, _ := t.Lookup(tmpl)
	return strings.TrimSpace(v)
}
