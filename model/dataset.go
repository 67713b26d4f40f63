package model

// Dataset is a header row followed by data rows.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// NewDataset creates an empty dataset with the given header.
func NewDataset(columns []string) *Dataset {
	return &Dataset{
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, 0),
	}
}

// AddRecord appends a record, labelling its values with the header.
func (d *Dataset) AddRecord(values []string) {
	d.Rows = append(d.Rows, NewRow(len(d.Rows)+1, d.Columns, values))
}

// RowCount returns the number of data rows.
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}
