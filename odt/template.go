// Package odt fills ODT (OpenDocument Text) templates.
//
// Spans are the text:p and text:h elements of content.xml and of the page
// headers and footers stored in styles.xml.
package odt

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tsawler/docmerge/format"
	"github.com/tsawler/docmerge/internal/container"
	"github.com/tsawler/docmerge/internal/xmltext"
	"github.com/tsawler/docmerge/model"
)

// ODF namespaces
const (
	nsText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
)

const mimeType = "application/vnd.oasis.opendocument.text"

var rules = xmltext.Rules{
	Paragraph: func(n xml.Name) bool {
		return n.Space == nsText && (n.Local == "p" || n.Local == "h")
	},
	// Comments, footnote marks and change records are not body text.
	Skip: func(n xml.Name) bool {
		switch n.Space {
		case nsOffice:
			return n.Local == "annotation"
		case nsText:
			return n.Local == "note-citation" || n.Local == "tracked-changes"
		}
		return false
	},
}

// Template is a loaded ODT file.
type Template struct {
	archive *container.Archive
	parts   []string
}

// Open loads an ODT template from disk.
func Open(filename string) (*Template, error) {
	a, err := container.Open(filename)
	if err != nil {
		return nil, err
	}
	return newTemplate(a)
}

// FromBytes loads an ODT template from memory.
func FromBytes(data []byte) (*Template, error) {
	a, err := container.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return newTemplate(a)
}

func newTemplate(a *container.Archive) (*Template, error) {
	if err := a.Require("content.xml"); err != nil {
		return nil, err
	}
	if mt, err := a.FileContent("mimetype"); err == nil {
		if !strings.HasPrefix(strings.TrimSpace(string(mt)), mimeType) {
			return nil, fmt.Errorf("not an OpenDocument text file: %s", mt)
		}
	}

	t := &Template{archive: a, parts: []string{"content.xml"}}
	if a.Require("styles.xml") == nil {
		t.parts = append(t.parts, "styles.xml")
	}

	if _, err := t.NewDocument(); err != nil {
		return nil, err
	}
	return t, nil
}

// Format reports format.ODT.
func (t *Template) Format() format.Format {
	return format.ODT
}

// NewDocument returns a fresh editable instance of the template.
func (t *Template) NewDocument() (model.Document, error) {
	return xmltext.Load(t.archive, t.parts, rules)
}
