// Package docx fills DOCX (Office Open XML) templates.
//
// A [Template] is loaded once; each call to [Template.NewDocument] parses a
// fresh copy of the text parts, so documents produced for different rows
// never share state. Spans are the paragraphs of the main body (including
// table cells and text boxes), headers, footers, footnotes and endnotes.
package docx

import (
	"encoding/xml"
	"regexp"
	"sort"

	"github.com/tsawler/docmerge/format"
	"github.com/tsawler/docmerge/internal/container"
	"github.com/tsawler/docmerge/internal/xmltext"
	"github.com/tsawler/docmerge/model"
)

// XML namespace of WordprocessingML
const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const mainPart = "word/document.xml"

var secondaryPartRe = regexp.MustCompile(`^word/(header\d*|footer\d*|footnotes|endnotes)\.xml$`)

var rules = xmltext.Rules{
	Paragraph:     func(n xml.Name) bool { return n.Space == nsW && n.Local == "p" },
	Text:          func(n xml.Name) bool { return n.Space == nsW && n.Local == "t" },
	PreserveSpace: true,
}

// Template is a loaded DOCX file.
type Template struct {
	archive *container.Archive
	parts   []string
}

// Open loads a DOCX template from disk.
func Open(filename string) (*Template, error) {
	a, err := container.Open(filename)
	if err != nil {
		return nil, err
	}
	return newTemplate(a)
}

// FromBytes loads a DOCX template from memory.
func FromBytes(data []byte) (*Template, error) {
	a, err := container.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return newTemplate(a)
}

func newTemplate(a *container.Archive) (*Template, error) {
	if err := a.Require("[Content_Types].xml", mainPart); err != nil {
		return nil, err
	}

	t := &Template{archive: a, parts: []string{mainPart}}
	var extra []string
	for _, name := range a.Names() {
		if secondaryPartRe.MatchString(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	t.parts = append(t.parts, extra...)

	// Fail at load time rather than on the first row.
	if _, err := t.NewDocument(); err != nil {
		return nil, err
	}
	return t, nil
}

// Format reports format.DOCX.
func (t *Template) Format() format.Format {
	return format.DOCX
}

// Parts returns the names of the XML parts that contribute spans.
func (t *Template) Parts() []string {
	return append([]string(nil), t.parts...)
}

// NewDocument returns a fresh editable instance of the template.
func (t *Template) NewDocument() (model.Document, error) {
	return xmltext.Load(t.archive, t.parts, rules)
}
