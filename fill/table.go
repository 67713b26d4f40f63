package fill

import (
	"github.com/tsawler/docmerge/label"
	"github.com/tsawler/docmerge/model"
)

// Table maps normalized keys to values for one row.
type Table map[string]string

// Build converts a row into a replacement table. When two labels normalize
// to the same key the later column wins.
func Build(row model.Row) Table {
	t := make(Table, len(row.Fields))
	for _, f := range row.Fields {
		t[label.Normalize(f.Label)] = f.Value
	}
	return t
}

// Lookup normalizes key and returns its value. The empty key never matches.
func (t Table) Lookup(key string) (string, bool) {
	k := label.Normalize(key)
	if k == "" {
		return "", false
	}
	v, ok := t[k]
	return v, ok
}

// Duplicates returns the normalized keys that more than one column of the
// row maps to, in order of first appearance.
func Duplicates(row model.Row) []string {
	seen := make(map[string]int, len(row.Fields))
	var dups []string
	for _, f := range row.Fields {
		k := label.Normalize(f.Label)
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}
