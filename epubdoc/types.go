// Package epubdoc fills EPUB templates.
//
// Spans are read from the package document metadata (title, creator,
// description and similar Dublin Core elements), every XHTML content
// document of the spine in reading order, and the navigation documents, so
// chapter titles in the table of contents are filled along with the text.
// Within XHTML, spans are block elements: the title, paragraphs, headings,
// list items, table cells, captions and preformatted text.
package epubdoc

// Package represents the parsed OPF document.
type Package struct {
	Manifest map[string]ManifestItem // keyed by ID
	Spine    []SpineItem
	Version  string // "2.0" or "3.0"
}

// ManifestItem represents a file in the EPUB.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string // "nav", "cover-image", etc.
}

// SpineItem represents a content document in reading order.
type SpineItem struct {
	IDRef  string
	Linear bool // true if part of main reading order
}

// hasProperty reports whether the item carries the given property.
func (m ManifestItem) hasProperty(prop string) bool {
	for _, p := range m.Properties {
		if p == prop {
			return true
		}
	}
	return false
}
