// Package xlsx reads worksheets of XLSX (Office Open XML Spreadsheet) files
// as grids of display strings, for use as a merge data source.
package xlsx

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/tsawler/docmerge/internal/container"
	"github.com/tsawler/docmerge/label"
)

// Workbook is an opened XLSX file.
type Workbook struct {
	archive       *container.Archive
	sheets        []sheetRefXML
	targets       map[string]string // RID -> part name
	sharedStrings []string
}

// Open opens an XLSX file for reading.
func Open(filename string) (*Workbook, error) {
	a, err := container.Open(filename)
	if err != nil {
		return nil, err
	}
	return newWorkbook(a)
}

// FromBytes opens an XLSX file held in memory.
func FromBytes(data []byte) (*Workbook, error) {
	a, err := container.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return newWorkbook(a)
}

func newWorkbook(a *container.Archive) (*Workbook, error) {
	if err := a.Require("[Content_Types].xml", "xl/workbook.xml"); err != nil {
		return nil, err
	}
	w := &Workbook{archive: a, targets: make(map[string]string)}

	if err := w.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}
	if err := w.parseWorkbook(); err != nil {
		return nil, fmt.Errorf("parsing workbook: %w", err)
	}
	if err := w.parseSharedStrings(); err != nil {
		return nil, fmt.Errorf("parsing shared strings: %w", err)
	}
	return w, nil
}

func (w *Workbook) parseRelationships() error {
	data, err := w.archive.FileContent("xl/_rels/workbook.xml.rels")
	if err != nil {
		return nil // relationships are optional
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}
	for _, rel := range rels.Relationship {
		target := rel.Target
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Join("xl", target)
		}
		w.targets[rel.ID] = target
	}
	return nil
}

func (w *Workbook) parseWorkbook() error {
	data, err := w.archive.FileContent("xl/workbook.xml")
	if err != nil {
		return err
	}
	var wb workbookXML
	if err := xml.Unmarshal(data, &wb); err != nil {
		return err
	}
	if len(wb.Sheets.Sheet) == 0 {
		return fmt.Errorf("no worksheets found")
	}
	w.sheets = wb.Sheets.Sheet
	return nil
}

func (w *Workbook) parseSharedStrings() error {
	data, err := w.archive.FileContent("xl/sharedStrings.xml")
	if err != nil {
		return nil // shared strings are optional
	}
	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return err
	}
	w.sharedStrings = make([]string, len(sst.SI))
	for i := range sst.SI {
		w.sharedStrings[i] = sst.SI[i].String()
	}
	return nil
}

// SheetNames returns the worksheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}

// Rows returns the cells of a worksheet as display strings. An empty name
// selects the first sheet; otherwise names match after label normalization.
// Rows are padded to the same width; leading and interior empty rows are
// kept so row positions stay meaningful.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	idx := 0
	if sheet != "" {
		idx = -1
		for i, s := range w.sheets {
			if label.Equal(s.Name, sheet) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("sheet not found: %s", sheet)
		}
	}

	target := w.targets[w.sheets[idx].RID]
	if target == "" {
		target = fmt.Sprintf("xl/worksheets/sheet%d.xml", idx+1)
	}
	data, err := w.archive.FileContent(target)
	if err != nil {
		return nil, err
	}

	var ws worksheetXML
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parsing worksheet %s: %w", w.sheets[idx].Name, err)
	}
	return w.grid(&ws), nil
}

func (w *Workbook) grid(ws *worksheetXML) [][]string {
	var rows [][]string
	width := 0
	next := 0
	for _, r := range ws.SheetData.Rows {
		rowIdx := next
		if r.R > 0 {
			rowIdx = r.R - 1
		}
		next = rowIdx + 1
		for len(rows) <= rowIdx {
			rows = append(rows, nil)
		}

		var cells []string
		col := 0
		for _, c := range r.Cells {
			if c.R != "" {
				if cc, _, err := ParseCellRef(c.R); err == nil {
					col = cc
				}
			}
			for len(cells) <= col {
				cells = append(cells, "")
			}
			cells[col] = w.value(&c)
			col++
		}
		rows[rowIdx] = cells
		width = max(width, len(cells))
	}

	for i := range rows {
		for len(rows[i]) < width {
			rows[i] = append(rows[i], "")
		}
	}
	return rows
}

func (w *Workbook) value(c *cellXML) string {
	switch c.T {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err == nil && idx >= 0 && idx < len(w.sharedStrings) {
			return w.sharedStrings[idx]
		}
		return ""
	case "b":
		if c.V == "1" {
			return "TRUE"
		}
		return "FALSE"
	case "inlineStr":
		if c.Is != nil {
			return c.Is.String()
		}
		return ""
	default:
		// numbers, errors and cached formula results keep their raw value
		return c.V
	}
}
