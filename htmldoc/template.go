// Package htmldoc fills HTML templates. Every text node outside script and
// style elements is a span.
package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html"

	"github.com/tsawler/docmerge/format"
	"github.com/tsawler/docmerge/model"
)

// Template is a loaded HTML file.
type Template struct {
	data []byte
}

// Open loads an HTML template from disk.
func Open(filename string) (*Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return FromBytes(data)
}

// OpenReader loads an HTML template from r.
func OpenReader(r io.Reader) (*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromBytes(data)
}

// FromBytes loads an HTML template from memory.
func FromBytes(data []byte) (*Template, error) {
	t := &Template{data: data}
	if _, err := t.NewDocument(); err != nil {
		return nil, err
	}
	return t, nil
}

// Format reports format.HTML.
func (t *Template) Format() format.Format {
	return format.HTML
}

// NewDocument parses a fresh tree from the template source.
func (t *Template) NewDocument() (model.Document, error) {
	root, err := html.Parse(bytes.NewReader(t.data))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	d := &Document{root: root}
	collectText(root, &d.nodes)
	return d, nil
}

// collectText appends the text nodes under n in document order.
func collectText(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		*out = append(*out, n)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}

// Document is one editable instance of an HTML template.
type Document struct {
	root  *html.Node
	nodes []*html.Node
}

// Spans returns the text node contents in document order.
func (d *Document) Spans() []string {
	out := make([]string, len(d.nodes))
	for i, n := range d.nodes {
		out[i] = n.Data
	}
	return out
}

// SetSpan replaces the text of node i. The text is escaped on output.
func (d *Document) SetSpan(i int, text string) error {
	if i < 0 || i >= len(d.nodes) {
		return fmt.Errorf("span %d out of range [0,%d)", i, len(d.nodes))
	}
	d.nodes[i].Data = text
	return nil
}

// WriteTo renders the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}
