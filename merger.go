package docmerge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tsawler/docmerge/destination"
	"github.com/tsawler/docmerge/manifest"
	"github.com/tsawler/docmerge/model"
)

// Recorder receives one entry per generated file. *manifest.Run
// implements it.
type Recorder interface {
	Record(ctx context.Context, e manifest.Entry) error
}

// Merger provides a fluent interface for configuring a merge run.
// Each configuration method returns a new Merger instance, so a partially
// configured Merger can be reused as a base for several runs.
type Merger struct {
	// Sources
	templates []string
	dataPath  string
	rows      *model.Dataset

	options mergeOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during configuration
	warnings []Warning
}

// Open returns a Merger for the given template files. Each template
// produces one document per data row.
func Open(templates ...string) *Merger {
	return &Merger{
		templates: append([]string(nil), templates...),
		options:   defaultOptions(),
	}
}

// clone creates a shallow copy of the Merger with a deep copy of options.
func (m *Merger) clone() *Merger {
	return &Merger{
		templates: append([]string(nil), m.templates...),
		dataPath:  m.dataPath,
		rows:      m.rows,
		options:   m.options.clone(),
		err:       m.err,
		warnings:  append([]Warning(nil), m.warnings...),
	}
}

// ============================================================================
// Configuration Methods (return new Merger instance)
// ============================================================================

// Templates adds template files. Multiple calls are cumulative.
func (m *Merger) Templates(paths ...string) *Merger {
	newM := m.clone()
	newM.templates = append(newM.templates, paths...)
	return newM
}

// Data sets the CSV or XLSX file rows are read from.
func (m *Merger) Data(path string) *Merger {
	newM := m.clone()
	newM.dataPath = path
	newM.rows = nil
	return newM
}

// Rows uses an already loaded dataset instead of a data file.
func (m *Merger) Rows(ds *model.Dataset) *Merger {
	newM := m.clone()
	if ds == nil {
		newM.err = fmt.Errorf("nil dataset")
		return newM
	}
	newM.rows = ds
	newM.dataPath = ""
	return newM
}

// OutputDir sets the directory documents are written to.
func (m *Merger) OutputDir(dir string) *Merger {
	newM := m.clone()
	newM.options.outputDir = dir
	return newM
}

// NameTemplate sets the output name template. It is either a column name
// or a template with $Field and $Field[index] tokens.
func (m *Merger) NameTemplate(tmpl string) *Merger {
	newM := m.clone()
	newM.options.nameTemplate = tmpl
	return newM
}

// Encoding sets the character encoding of CSV data.
func (m *Merger) Encoding(name string) *Merger {
	newM := m.clone()
	newM.options.data.Encoding = name
	return newM
}

// Sheet selects the XLSX worksheet rows are read from.
func (m *Merger) Sheet(name string) *Merger {
	newM := m.clone()
	newM.options.data.Sheet = name
	return newM
}

// Delimiter sets the CSV field separator.
func (m *Merger) Delimiter(r rune) *Merger {
	newM := m.clone()
	newM.options.data.Delimiter = r
	return newM
}

// Require names columns the data must have. Names match after label
// normalization. Multiple calls are cumulative.
func (m *Merger) Require(columns ...string) *Merger {
	newM := m.clone()
	newM.options.require = append(newM.options.require, columns...)
	return newM
}

// Destination overrides where documents are written. OutputDir is ignored
// when a destination is set.
func (m *Merger) Destination(d destination.Destination) *Merger {
	newM := m.clone()
	newM.options.dest = d
	return newM
}

// Recorder sets a recorder that is told about every generated file.
func (m *Merger) Recorder(r Recorder) *Merger {
	newM := m.clone()
	newM.options.recorder = r
	return newM
}

// Logger sets the logger. The default discards everything.
func (m *Merger) Logger(l *slog.Logger) *Merger {
	newM := m.clone()
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	newM.options.logger = l
	return newM
}

// DryRun resolves names and fills templates without writing anything.
func (m *Merger) DryRun() *Merger {
	newM := m.clone()
	newM.options.dryRun = true
	return newM
}
