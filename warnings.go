package docmerge

import (
	"fmt"
	"strings"
)

// WarningCode classifies a data-quality issue.
type WarningCode int

const (
	// WarnNoRows means the data source has a header but no rows.
	WarnNoRows WarningCode = iota
	// WarnUnmatchedPlaceholder means a template placeholder had no column.
	WarnUnmatchedPlaceholder
	// WarnNameFallback means the name template produced no usable name.
	WarnNameFallback
	// WarnBlankRow means every value of a row is empty.
	WarnBlankRow
	// WarnNameCollision means an output name was suffixed to stay unique.
	WarnNameCollision
)

// String returns the string representation of the warning code.
func (c WarningCode) String() string {
	switch c {
	case WarnNoRows:
		return "no-rows"
	case WarnUnmatchedPlaceholder:
		return "unmatched-placeholder"
	case WarnNameFallback:
		return "name-fallback"
	case WarnBlankRow:
		return "blank-row"
	case WarnNameCollision:
		return "name-collision"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found while merging. Row is 0 for warnings
// that concern the whole run.
type Warning struct {
	Code     WarningCode
	Row      int
	Template string
	Message  string
}

func (w Warning) String() string {
	var b strings.Builder
	if w.Row > 0 {
		fmt.Fprintf(&b, "row %d: ", w.Row)
	}
	if w.Template != "" {
		fmt.Fprintf(&b, "%s: ", w.Template)
	}
	b.WriteString(w.Message)
	return b.String()
}

// FormatWarnings joins warnings into a single line-per-warning string.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
