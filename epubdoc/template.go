package epubdoc

import (
	"encoding/xml"
	"errors"
	"sort"
	"strings"

	"github.com/tsawler/docmerge/format"
	"github.com/tsawler/docmerge/internal/container"
	"github.com/tsawler/docmerge/internal/xmltext"
	"github.com/tsawler/docmerge/model"
)

// Template errors.
var (
	ErrInvalidMimetype = errors.New("epub: invalid mimetype (not an EPUB)")
)

const (
	nsXHTML = "http://www.w3.org/1999/xhtml"
	nsDC    = "http://purl.org/dc/elements/1.1/"
	nsNCX   = "http://www.daisy.org/z3986/2005/ncx/"
)

const (
	mediaXHTML = "application/xhtml+xml"
	mediaNCX   = "application/x-dtbncx+xml"
)

var blockElements = map[string]bool{
	"title": true, "p": true, "li": true, "dt": true, "dd": true,
	"td": true, "th": true, "caption": true, "figcaption": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var metadataElements = map[string]bool{
	"title": true, "creator": true, "contributor": true, "description": true,
	"subject": true, "publisher": true, "rights": true,
}

var rules = xmltext.Rules{
	Paragraph: func(n xml.Name) bool {
		switch n.Space {
		case nsXHTML:
			return blockElements[n.Local]
		case nsDC:
			return metadataElements[n.Local]
		case nsNCX:
			return n.Local == "text"
		}
		return false
	},
	HTMLEntities: true,
}

// Template is a loaded EPUB file.
type Template struct {
	archive *container.Archive
	pkg     *Package
	parts   []string
}

// Open loads an EPUB template from disk.
func Open(filename string) (*Template, error) {
	a, err := container.Open(filename)
	if err != nil {
		return nil, err
	}
	return newTemplate(a)
}

// FromBytes loads an EPUB template from memory.
func FromBytes(data []byte) (*Template, error) {
	a, err := container.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return newTemplate(a)
}

func newTemplate(a *container.Archive) (*Template, error) {
	if err := validateMimetype(a); err != nil {
		return nil, err
	}
	if err := checkForDRM(a); err != nil {
		return nil, err
	}

	opfPath, err := parseContainer(a)
	if err != nil {
		return nil, err
	}
	pkg, baseDir, err := parseOPF(a, opfPath)
	if err != nil {
		return nil, err
	}

	t := &Template{archive: a, pkg: pkg, parts: []string{opfPath}}
	if err := t.collectParts(baseDir); err != nil {
		return nil, err
	}

	if _, err := t.NewDocument(); err != nil {
		return nil, err
	}
	return t, nil
}

// validateMimetype checks that the mimetype file is correct.
func validateMimetype(a *container.Archive) error {
	data, err := a.FileContent("mimetype")
	if err != nil {
		return ErrInvalidMimetype
	}
	if strings.TrimSpace(string(data)) != "application/epub+zip" {
		return ErrInvalidMimetype
	}
	return nil
}

// collectParts lists the spine documents in reading order followed by the
// navigation documents that are not already part of the spine. Items whose
// file is missing are skipped.
func (t *Template) collectParts(baseDir string) error {
	seen := make(map[string]bool)
	present := make(map[string]bool)
	for _, name := range t.archive.Names() {
		present[name] = true
	}

	add := func(item ManifestItem) bool {
		href := resolveHref(baseDir, item.Href)
		if seen[href] || !present[href] {
			return false
		}
		seen[href] = true
		t.parts = append(t.parts, href)
		return true
	}

	chapters := 0
	for _, ref := range t.pkg.Spine {
		item, ok := t.pkg.Manifest[ref.IDRef]
		if !ok || item.MediaType != mediaXHTML {
			continue
		}
		if add(item) {
			chapters++
		}
	}
	if chapters == 0 {
		return ErrEmptySpine
	}

	for _, item := range t.pkg.navigation() {
		add(item)
	}
	return nil
}

// navigation returns the EPUB 3 nav document and the EPUB 2 NCX, when
// present.
func (pkg *Package) navigation() []ManifestItem {
	var nav, ncx []ManifestItem
	for _, item := range pkg.Manifest {
		switch {
		case item.hasProperty("nav"):
			nav = append(nav, item)
		case item.MediaType == mediaNCX:
			ncx = append(ncx, item)
		}
	}
	byHref := func(items []ManifestItem) {
		sort.Slice(items, func(i, j int) bool { return items[i].Href < items[j].Href })
	}
	byHref(nav)
	byHref(ncx)
	return append(nav, ncx...)
}

// Format reports format.EPUB.
func (t *Template) Format() format.Format {
	return format.EPUB
}

// Version returns the EPUB version declared by the package document.
func (t *Template) Version() string {
	return t.pkg.Version
}

// Parts returns the names of the files that contribute spans, starting with
// the package document.
func (t *Template) Parts() []string {
	return append([]string(nil), t.parts...)
}

// NewDocument returns a fresh editable instance of the template.
func (t *Template) NewDocument() (model.Document, error) {
	return xmltext.Load(t.archive, t.parts, rules)
}
