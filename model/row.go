package model

import "strings"

// Field is one labelled cell of a row.
type Field struct {
	Label string
	Value string
}

// Row is a single input record. Index is 1-based in data order.
type Row struct {
	Index  int
	Fields []Field
}

// NewRow pairs labels with values. Missing values become empty strings and
// values without a label are dropped.
func NewRow(index int, labels, values []string) Row {
	fields := make([]Field, len(labels))
	for i, l := range labels {
		fields[i].Label = l
		if i < len(values) {
			fields[i].Value = values[i]
		}
	}
	return Row{Index: index, Fields: fields}
}

// Get returns the value of the last field whose label matches exactly.
func (r Row) Get(label string) string {
	v := ""
	for _, f := range r.Fields {
		if f.Label == label {
			v = f.Value
		}
	}
	return v
}

// Values returns the row's values in column order.
func (r Row) Values() []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Value
	}
	return out
}

// IsBlank reports whether every value is empty or whitespace.
func (r Row) IsBlank() bool {
	for _, f := range r.Fields {
		if strings.TrimSpace(f.Value) != "" {
			return false
		}
	}
	return true
}
