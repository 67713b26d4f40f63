// Package pptx fills PPTX (PresentationML) templates.
//
// Spans are the DrawingML paragraphs (a:p) of every slide, in slide order,
// followed by those of the speaker notes.
package pptx

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/docmerge/format"
	"github.com/tsawler/docmerge/internal/container"
	"github.com/tsawler/docmerge/internal/xmltext"
	"github.com/tsawler/docmerge/model"
)

// XML namespace of DrawingML text
const nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"

const (
	slidePrefix = "ppt/slides/slide"
	notesPrefix = "ppt/notesSlides/notesSlide"
)

var rules = xmltext.Rules{
	Paragraph: func(n xml.Name) bool { return n.Space == nsA && n.Local == "p" },
	Text:      func(n xml.Name) bool { return n.Space == nsA && n.Local == "t" },
}

// Template is a loaded PPTX file.
type Template struct {
	archive *container.Archive
	parts   []string
}

// Open loads a PPTX template from disk.
func Open(filename string) (*Template, error) {
	a, err := container.Open(filename)
	if err != nil {
		return nil, err
	}
	return newTemplate(a)
}

// FromBytes loads a PPTX template from memory.
func FromBytes(data []byte) (*Template, error) {
	a, err := container.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return newTemplate(a)
}

func newTemplate(a *container.Archive) (*Template, error) {
	if err := a.Require("[Content_Types].xml"); err != nil {
		return nil, err
	}

	var slides, notes []string
	for _, name := range a.Names() {
		switch {
		case partNumber(name, slidePrefix) > 0:
			slides = append(slides, name)
		case partNumber(name, notesPrefix) > 0:
			notes = append(notes, name)
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides found in presentation")
	}
	sortParts(slides, slidePrefix)
	sortParts(notes, notesPrefix)

	t := &Template{archive: a, parts: append(slides, notes...)}
	if _, err := t.NewDocument(); err != nil {
		return nil, err
	}
	return t, nil
}

// sortParts orders parts numerically (slide2 before slide10).
func sortParts(names []string, prefix string) {
	sort.Slice(names, func(i, j int) bool {
		return partNumber(names[i], prefix) < partNumber(names[j], prefix)
	})
}

// partNumber extracts N from prefixN.xml, or 0 when name does not match.
func partNumber(name, prefix string) int {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".xml") {
		return 0
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".xml")
	if digits == "" {
		return 0
	}
	n := 0
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// Format reports format.PPTX.
func (t *Template) Format() format.Format {
	return format.PPTX
}

// Parts returns the names of the XML parts that contribute spans.
func (t *Template) Parts() []string {
	return append([]string(nil), t.parts...)
}

// NewDocument returns a fresh editable instance of the template.
func (t *Template) NewDocument() (model.Document, error) {
	return xmltext.Load(t.archive, t.parts, rules)
}
