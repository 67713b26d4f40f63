package model

import (
	"io"

	"github.com/tsawler/docmerge/format"
)

// Document is one editable instance of a template.
type Document interface {
	// Spans returns the text spans in document order. Paragraphs inside
	// tables, headers and footers are included.
	Spans() []string

	// SetSpan replaces the text of span i.
	SetSpan(i int, text string) error

	// WriteTo serializes the document with all span edits applied.
	WriteTo(w io.Writer) (int64, error)
}

// Template is a loaded document container.
type Template interface {
	// Format reports the container format.
	Format() format.Format

	// NewDocument returns a fresh instance that shares no mutable state
	// with previously returned instances.
	NewDocument() (Document, error)
}
