package xmltext

import (
	"fmt"
	"io"

	"github.com/tsawler/docmerge/internal/container"
)

// Package is an editable set of XML parts inside a zip container. Spans
// are numbered across parts in the order the parts were given.
type Package struct {
	archive *container.Archive
	names   []string
	parts   []*Part
}

// Load parses the named parts of a with rules. The archive is shared and
// never modified.
func Load(a *container.Archive, names []string, rules Rules) (*Package, error) {
	pkg := &Package{archive: a}
	for _, name := range names {
		data, err := a.FileContent(name)
		if err != nil {
			return nil, err
		}
		p, err := Parse(data, rules)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		pkg.names = append(pkg.names, name)
		pkg.parts = append(pkg.parts, p)
	}
	return pkg, nil
}

// Spans returns the texts of all parts.
func (pkg *Package) Spans() []string {
	var out []string
	for _, p := range pkg.parts {
		out = append(out, p.Texts()...)
	}
	return out
}

// SetSpan replaces the text of span i.
func (pkg *Package) SetSpan(i int, text string) error {
	if i < 0 {
		return fmt.Errorf("span index %d out of range", i)
	}
	j := i
	for _, p := range pkg.parts {
		if j < p.Len() {
			return p.Set(j, text)
		}
		j -= p.Len()
	}
	return fmt.Errorf("span index %d out of range", i)
}

// WriteTo writes the container with modified parts replaced. Untouched
// entries are copied without recompression.
func (pkg *Package) WriteTo(w io.Writer) (int64, error) {
	replace := make(map[string][]byte)
	for i, p := range pkg.parts {
		if p.Modified() {
			replace[pkg.names[i]] = p.Bytes()
		}
	}
	return pkg.archive.WriteTo(w, replace)
}
