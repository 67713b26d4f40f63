package docmerge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tsawler/docmerge/dataset"
	"github.com/tsawler/docmerge/destination"
	"github.com/tsawler/docmerge/fill"
	"github.com/tsawler/docmerge/label"
	"github.com/tsawler/docmerge/manifest"
	"github.com/tsawler/docmerge/model"
	"github.com/tsawler/docmerge/naming"
)

// Output describes one generated document.
type Output struct {
	Row       int
	Template  string
	BaseName  string
	Source    naming.Source
	File      string
	Unmatched []string
}

// Report summarizes a run.
type Report struct {
	Rows    int
	Outputs []Output
	DryRun  bool
}

// Files returns the generated file names in generation order.
func (r *Report) Files() []string {
	files := make([]string, len(r.Outputs))
	for i, o := range r.Outputs {
		files[i] = o.File
	}
	return files
}

// Run loads the templates and data and writes one document per row and
// template.
//
// Configuration problems (missing files, unsupported formats, missing
// required columns, undecodable data) are reported before anything is
// written. Data-quality issues are returned as warnings. A write failure
// stops the run; the report lists what was written before it.
func (m *Merger) Run(ctx context.Context) (*Report, []Warning, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	log := m.options.logger
	warnings := append([]Warning(nil), m.warnings...)

	if len(m.templates) == 0 {
		return nil, nil, ErrNoTemplates
	}
	templates := make([]*loadedTemplate, 0, len(m.templates))
	for _, path := range m.templates {
		t, err := openTemplate(path)
		if err != nil {
			return nil, nil, err
		}
		templates = append(templates, t)
	}

	ds, err := m.loadData()
	if err != nil {
		return nil, nil, err
	}
	if err := checkRequired(ds.Columns, m.options.require); err != nil {
		return nil, nil, err
	}
	if dups := fill.Duplicates(model.NewRow(0, ds.Columns, nil)); len(dups) > 0 {
		log.Debug("duplicate column labels, last one wins", "labels", dups)
	}
	unused, err := unusedColumns(templates, ds.Columns, m.options.nameTemplate)
	if err != nil {
		return nil, nil, err
	}
	if len(unused) > 0 {
		log.Info("columns not used by any template", "columns", unused)
	}

	report := &Report{Rows: ds.RowCount(), DryRun: m.options.dryRun}
	if ds.RowCount() == 0 {
		warnings = append(warnings, Warning{Code: WarnNoRows, Message: "data has a header but no rows"})
		log.Warn("no data rows")
		return report, warnings, nil
	}

	dest := m.destination()
	registry := naming.NewRegistry(dest.Exists)

	for _, row := range ds.Rows {
		if err := ctx.Err(); err != nil {
			return report, warnings, err
		}

		table := fill.Build(row)
		if row.IsBlank() {
			warnings = append(warnings, Warning{Code: WarnBlankRow, Row: row.Index, Message: "all values are empty"})
		}

		for _, t := range templates {
			out, data, err := m.render(t, row, table)
			if err != nil {
				return report, warnings, fmt.Errorf("row %d: %s: %w", row.Index, t.name, err)
			}

			name := naming.Resolve(row, table, m.options.nameTemplate, row.Index)
			base := name.Base
			if len(templates) > 1 && t.stem != "" {
				base = naming.Truncate(base+"_"+t.stem, naming.MaxBaseLen)
			}
			ext := t.tmpl.Format().Extension()
			file := registry.Claim(base, ext)

			out.BaseName = name.Base
			out.Source = name.Source
			out.File = file
			warnings = append(warnings, rowWarnings(out, m.options.nameTemplate, base+ext)...)

			if err := dest.Write(file, data); err != nil {
				log.Error("write failed", "row", row.Index, "template", t.name, "file", file, "error", err)
				return report, warnings, fmt.Errorf("writing %s: %w", file, err)
			}
			if m.options.recorder != nil {
				if err := m.options.recorder.Record(ctx, manifest.Entry{
					Row:       out.Row,
					Template:  out.Template,
					BaseName:  out.BaseName,
					Source:    out.Source.String(),
					FileName:  out.File,
					Unmatched: out.Unmatched,
				}); err != nil {
					return report, warnings, fmt.Errorf("recording %s: %w", file, err)
				}
			}

			report.Outputs = append(report.Outputs, out)
			log.Info("generated", "row", row.Index, "template", t.name, "file", file, "source", name.Source.String())
			if len(out.Unmatched) > 0 {
				log.Warn("unmatched placeholders", "row", row.Index, "template", t.name, "keys", out.Unmatched)
			}
		}
	}

	return report, warnings, nil
}

// render fills a fresh instance of t with the row's values.
func (m *Merger) render(t *loadedTemplate, row model.Row, table fill.Table) (Output, []byte, error) {
	out := Output{Row: row.Index, Template: t.name}

	doc, err := t.tmpl.NewDocument()
	if err != nil {
		return out, nil, err
	}
	for i, span := range doc.Spans() {
		text, res := fill.Substitute(span, table)
		for _, key := range res.Unmatched {
			if !slices.Contains(out.Unmatched, key) {
				out.Unmatched = append(out.Unmatched, key)
			}
		}
		if len(res.Replaced) == 0 {
			continue
		}
		if err := doc.SetSpan(i, text); err != nil {
			return out, nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return out, nil, fmt.Errorf("serializing document: %w", err)
	}
	return out, buf.Bytes(), nil
}

// unusedColumns lists the columns that no placeholder of any template and
// no part of the name template refers to.
func unusedColumns(templates []*loadedTemplate, columns []string, nameTemplate string) ([]string, error) {
	used := make(map[string]bool)
	for _, t := range templates {
		doc, err := t.tmpl.NewDocument()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.name, err)
		}
		for _, span := range doc.Spans() {
			for _, key := range fill.Keys(span) {
				used[label.Normalize(key)] = true
			}
		}
	}

	name := label.Normalize(nameTemplate)
	var unused []string
	for _, c := range columns {
		key := label.Normalize(c)
		if key == "" || used[key] || (name != "" && strings.Contains(name, key)) {
			continue
		}
		unused = append(unused, c)
	}
	return unused, nil
}

func rowWarnings(out Output, nameTemplate, wanted string) []Warning {
	var warnings []Warning
	if len(out.Unmatched) > 0 {
		warnings = append(warnings, Warning{
			Code:     WarnUnmatchedPlaceholder,
			Row:      out.Row,
			Template: out.Template,
			Message:  "no column for " + strings.Join(out.Unmatched, ", "),
		})
	}
	if out.Source == naming.SourceFallback || (nameTemplate != "" && out.Source != naming.SourceTemplate) {
		warnings = append(warnings, Warning{
			Code:     WarnNameFallback,
			Row:      out.Row,
			Template: out.Template,
			Message:  fmt.Sprintf("name template gave no usable name, using %s (%s)", out.BaseName, out.Source),
		})
	}
	if out.File != wanted {
		warnings = append(warnings, Warning{
			Code:     WarnNameCollision,
			Row:      out.Row,
			Template: out.Template,
			Message:  fmt.Sprintf("%s already taken, wrote %s", wanted, out.File),
		})
	}
	return warnings
}

func (m *Merger) loadData() (*model.Dataset, error) {
	if m.rows != nil {
		return m.rows, nil
	}
	if m.dataPath == "" {
		return nil, ErrNoData
	}
	if _, err := os.Stat(m.dataPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataNotFound, m.dataPath)
		}
		return nil, fmt.Errorf("opening data: %w", err)
	}
	ds, err := dataset.Load(m.dataPath, m.options.data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", m.dataPath, err)
	}
	return ds, nil
}

func (m *Merger) destination() destination.Destination {
	switch {
	case m.options.dest != nil:
		return m.options.dest
	case m.options.dryRun:
		return destination.NewMemory()
	default:
		return destination.NewDir(m.options.outputDir)
	}
}

// checkRequired returns ErrMissingColumn naming every required column that
// no header label matches.
func checkRequired(columns, required []string) error {
	var missing []string
	for _, want := range required {
		found := slices.ContainsFunc(columns, func(c string) bool { return label.Equal(c, want) })
		if !found {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}
