// Package tabular reads results tables from CSV and XLSX files into a
// uniform in-memory form.
package tabular

import (
	"github.com/rotisserie/eris"
)

// Table is a fully-loaded tabular file: one header row plus data rows.
// Cells are kept as strings; numeric interpretation happens downstream.
type Table struct {
	Headers []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a Table and its header index.
func NewTable(headers []string, rows [][]string) *Table {
	t := &Table{Headers: headers, Rows: rows}
	t.index = make(map[string]int, len(headers))
	for i, h := range headers {
		// First occurrence wins on duplicate headers.
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
	}
	return t
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	idx, ok := t.index[name]
	if !ok {
		return 0, eris.Errorf("tabular: column %q not found", name)
	}
	return idx, nil
}

// Cell returns the value at the given row and column name. Rows shorter
// than the header (ragged CSV input) yield an empty string.
func (t *Table) Cell(row int, name string) (string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return "", err
	}
	if idx >= len(t.Rows[row]) {
		return "", nil
	}
	return t.Rows[row][idx], nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Filter returns a new Table containing only the rows for which keep
// returns true. Header order is preserved.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	var rows [][]string
	for _, row := range t.Rows {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return NewTable(t.Headers, rows)
}
