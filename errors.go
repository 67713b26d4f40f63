package docmerge

import (
	"errors"

	"github.com/tsawler/docmerge/format"
)

var (
	// ErrTemplateNotFound is returned when a template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrDataNotFound is returned when the data file does not exist.
	ErrDataNotFound = errors.New("data file not found")

	// ErrMissingColumn is returned when a required column is absent from
	// the data header.
	ErrMissingColumn = errors.New("missing required column")

	// ErrUnsupportedFormat is returned for templates or data files of a
	// format that cannot be used in that role.
	ErrUnsupportedFormat = format.ErrUnsupported

	// ErrNoTemplates is returned when Run is called without templates.
	ErrNoTemplates = errors.New("no templates specified")

	// ErrNoData is returned when Run is called without a data source.
	ErrNoData = errors.New("no data source specified")
)
