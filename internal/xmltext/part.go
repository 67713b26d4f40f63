// Package xmltext exposes the paragraph text of an XML document part as
// editable spans and writes edits back without disturbing any other byte of
// the part.
//
// A span is the concatenated character data of one paragraph element. When a
// span is rewritten the new text goes into its first text segment and the
// remaining segments are emptied, so a placeholder split across several runs
// by a word processor is still replaced as a whole. Markup between and
// around the segments is preserved.
package xmltext

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Rules select which elements form spans.
type Rules struct {
	// Paragraph reports whether an element starts a new span. Paragraphs may
	// nest; character data belongs to the innermost one.
	Paragraph func(name xml.Name) bool

	// Text reports whether an element holds span text as its character
	// data. When nil, every run of character data inside a paragraph is a
	// segment.
	Text func(name xml.Name) bool

	// PreserveSpace marks rewritten text elements with xml:space="preserve".
	PreserveSpace bool

	// Skip reports whether an element's whole subtree is left out of every
	// span, nested paragraphs included. Its bytes are never rewritten.
	Skip func(name xml.Name) bool

	// HTMLEntities accepts the HTML named character entities (&nbsp; and
	// friends) that XHTML content documents may use.
	HTMLEntities bool
}

// segment is one piece of character data within a span.
type segment struct {
	tagStart, tagEnd int // start tag of the enclosing text element, or -1
	start, end       int // raw content bounds
	selfClosing      bool
	text             string
}

type span struct {
	segs    []segment
	text    string
	edited  bool
	newText string
}

// Part is a parsed XML part.
type Part struct {
	data  []byte
	rules Rules
	spans []*span
}

// Parse scans data for spans according to rules.
func Parse(data []byte, rules Rules) (*Part, error) {
	if rules.Paragraph == nil {
		return nil, fmt.Errorf("xmltext: no paragraph rule")
	}

	p := &Part{data: data, rules: rules}

	dec := xml.NewDecoder(bytes.NewReader(data))
	if rules.HTMLEntities {
		dec.Entity = xml.HTMLEntity
	}
	var (
		paras  []*span // open paragraphs, innermost last
		depths []int   // element depth at which each open paragraph started
		depth  int
		cur    *segment // open text element
		curAt  int      // depth of the open text element
		skipAt int      // depth of the skipped element, 0 when none
	)

	for {
		before := int(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML at offset %d: %w", before, err)
		}
		after := int(dec.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if skipAt > 0 {
				continue
			}
			if rules.Skip != nil && rules.Skip(t.Name) {
				skipAt = depth
				continue
			}
			if rules.Paragraph(t.Name) {
				s := &span{}
				p.spans = append(p.spans, s)
				paras = append(paras, s)
				depths = append(depths, depth)
				continue
			}
			if rules.Text != nil && cur == nil && len(paras) > 0 && rules.Text(t.Name) {
				cur = &segment{
					tagStart:    before,
					tagEnd:      after,
					start:       after,
					end:         after,
					selfClosing: bytes.HasSuffix(data[before:after], []byte("/>")),
				}
				curAt = depth
			}

		case xml.EndElement:
			if skipAt > 0 {
				if depth == skipAt {
					skipAt = 0
				}
				depth--
				continue
			}
			if cur != nil && depth == curAt {
				if !cur.selfClosing {
					cur.end = before
				}
				s := paras[len(paras)-1]
				s.segs = append(s.segs, *cur)
				s.text += cur.text
				cur = nil
			}
			if len(depths) > 0 && depths[len(depths)-1] == depth {
				paras = paras[:len(paras)-1]
				depths = depths[:len(depths)-1]
			}
			depth--

		case xml.CharData:
			if skipAt > 0 || len(paras) == 0 {
				continue
			}
			if rules.Text != nil {
				if cur != nil && depth == curAt {
					cur.text += string(t)
				}
				continue
			}
			s := paras[len(paras)-1]
			s.segs = append(s.segs, segment{
				tagStart: -1,
				tagEnd:   -1,
				start:    before,
				end:      after,
				text:     string(t),
			})
			s.text += string(t)
		}
	}

	return p, nil
}

// Len returns the number of spans.
func (p *Part) Len() int {
	return len(p.spans)
}

// Text returns the current text of span i.
func (p *Part) Text(i int) string {
	s := p.spans[i]
	if s.edited {
		return s.newText
	}
	return s.text
}

// Texts returns the current text of all spans in document order.
func (p *Part) Texts() []string {
	out := make([]string, len(p.spans))
	for i := range p.spans {
		out[i] = p.Text(i)
	}
	return out
}

// Set replaces the text of span i. Setting a span to its original text
// clears any pending edit.
func (p *Part) Set(i int, text string) error {
	if i < 0 || i >= len(p.spans) {
		return fmt.Errorf("span %d out of range [0,%d)", i, len(p.spans))
	}
	s := p.spans[i]
	if text == s.text {
		s.edited = false
		s.newText = ""
		return nil
	}
	if len(s.segs) == 0 {
		return fmt.Errorf("span %d has no text to replace", i)
	}
	s.edited = true
	s.newText = text
	return nil
}

// Modified reports whether any span has a pending edit.
func (p *Part) Modified() bool {
	for _, s := range p.spans {
		if s.edited {
			return true
		}
	}
	return false
}

type edit struct {
	start, end int
	repl       []byte
}

// Bytes returns the part with all edits applied. Without edits the original
// data is returned as is.
func (p *Part) Bytes() []byte {
	var edits []edit
	for _, s := range p.spans {
		if s.edited {
			edits = append(edits, p.spanEdits(s)...)
		}
	}
	if len(edits) == 0 {
		return p.data
	}

	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var out bytes.Buffer
	out.Grow(len(p.data))
	last := 0
	for _, e := range edits {
		out.Write(p.data[last:e.start])
		out.Write(e.repl)
		last = e.end
	}
	out.Write(p.data[last:])
	return out.Bytes()
}

func (p *Part) spanEdits(s *span) []edit {
	edits := make([]edit, 0, len(s.segs)+1)
	for i, seg := range s.segs {
		text := ""
		if i == 0 {
			text = s.newText
		}
		edits = append(edits, p.segmentEdits(seg, text)...)
	}
	return edits
}

func (p *Part) segmentEdits(seg segment, text string) []edit {
	esc := escape(text)

	if seg.tagStart < 0 {
		return []edit{{start: seg.start, end: seg.end, repl: esc}}
	}

	tag := p.data[seg.tagStart:seg.tagEnd]
	attr := ""
	if p.rules.PreserveSpace && text != "" && !bytes.Contains(tag, []byte("xml:space")) {
		attr = ` xml:space="preserve"`
	}

	if seg.selfClosing {
		if text == "" {
			return nil
		}
		name := qualifiedName(tag)
		repl := attr + ">" + string(esc) + "</" + name + ">"
		return []edit{{start: seg.tagEnd - 2, end: seg.tagEnd, repl: []byte(repl)}}
	}

	edits := make([]edit, 0, 2)
	if attr != "" {
		edits = append(edits, edit{start: seg.tagEnd - 1, end: seg.tagEnd - 1, repl: []byte(attr)})
	}
	return append(edits, edit{start: seg.start, end: seg.end, repl: esc})
}

// qualifiedName returns the prefixed element name of a raw start tag.
func qualifiedName(tag []byte) string {
	s := strings.TrimPrefix(string(tag), "<")
	if i := strings.IndexAny(s, " \t\r\n/>"); i >= 0 {
		s = s[:i]
	}
	return s
}

func escape(s string) []byte {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.Bytes()
}
