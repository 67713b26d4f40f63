package docmerge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/docmerge/docx"
	"github.com/tsawler/docmerge/epubdoc"
	"github.com/tsawler/docmerge/format"
	"github.com/tsawler/docmerge/htmldoc"
	"github.com/tsawler/docmerge/model"
	"github.com/tsawler/docmerge/naming"
	"github.com/tsawler/docmerge/odt"
	"github.com/tsawler/docmerge/pptx"
)

// loadedTemplate is a template opened for a run.
type loadedTemplate struct {
	path string
	name string // file name, used in warnings and the manifest
	stem string // sanitized file name without extension
	tmpl model.Template
}

// openTemplate opens a template file according to its format.
func openTemplate(path string) (*loadedTemplate, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("opening template: %w", err)
	}

	f, err := format.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detecting template format: %w", err)
	}

	var tmpl model.Template
	switch f {
	case format.DOCX:
		tmpl, err = docx.Open(path)
	case format.ODT:
		tmpl, err = odt.Open(path)
	case format.PPTX:
		tmpl, err = pptx.Open(path)
	case format.EPUB:
		tmpl, err = epubdoc.Open(path)
	case format.HTML:
		tmpl, err = htmldoc.Open(path)
	default:
		return nil, fmt.Errorf("%w: %s is not a DOCX, ODT, PPTX, EPUB or HTML template", ErrUnsupportedFormat, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s template %s: %w", f, filepath.Base(path), err)
	}

	name := filepath.Base(path)
	return &loadedTemplate{
		path: path,
		name: name,
		stem: naming.Sanitize(strings.TrimSuffix(name, filepath.Ext(name))),
		tmpl: tmpl,
	}, nil
}
