package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/docmerge/format"
	"github.com/tsawler/docmerge/model"
	"github.com/tsawler/docmerge/xlsx"
)

// Options controls how a data file is read.
type Options struct {
	// Encoding names the CSV character encoding. Empty means utf-8.
	Encoding string

	// Sheet selects an XLSX worksheet by name. Empty means the first sheet.
	Sheet string

	// Delimiter is the CSV field separator. Zero means ',' (tab for .tsv).
	Delimiter rune

	tsv bool
}

func (o Options) delimiter() rune {
	switch {
	case o.Delimiter != 0:
		return o.Delimiter
	case o.tsv:
		return '\t'
	default:
		return ','
	}
}

// Load reads a CSV or XLSX data file.
func Load(path string, opts Options) (*model.Dataset, error) {
	f, err := format.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening data: %w", err)
	}

	switch f {
	case format.CSV:
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening data: %w", err)
		}
		defer file.Close()
		opts.tsv = strings.EqualFold(filepath.Ext(path), ".tsv")
		return ReadCSV(file, opts)
	case format.XLSX:
		wb, err := xlsx.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening workbook: %w", err)
		}
		return FromXLSX(wb, opts.Sheet)
	default:
		return nil, fmt.Errorf("%w: %s is not a data file", format.ErrUnsupported, filepath.Base(path))
	}
}

// FromXLSX reads a worksheet as a dataset. Leading empty rows are skipped
// and the first non-empty row is the header.
func FromXLSX(wb *xlsx.Workbook, sheet string) (*model.Dataset, error) {
	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, err
	}
	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	header := trimTrailingBlank(rows[0])
	ds := model.NewDataset(header)
	for _, r := range rows[1:] {
		if blank(r) {
			continue
		}
		ds.AddRecord(r)
	}
	return ds, nil
}

func trimTrailingBlank(record []string) []string {
	n := len(record)
	for n > 0 && strings.TrimSpace(record[n-1]) == "" {
		n--
	}
	return record[:n]
}
