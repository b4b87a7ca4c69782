package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadTable loads a results file, dispatching on extension. Files ending
// in .xlsx are read as workbooks; everything else is parsed as CSV.
func ReadTable(path string, sheet int) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, sheet)
	}
	return ReadCSV(path)
}

// ReadCSV reads a CSV file. The first row is the header; data rows may
// have variable field counts. All cells are whitespace-trimmed.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: open %s", path)
	}
	defer func() { _ = f.Close() }()

	return ParseCSV(f)
}

// ParseCSV reads CSV content from r. Split out from ReadCSV for tests.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	var headers []string
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "tabular: read csv row")
		}

		for i, field := range record {
			record[i] = strings.TrimSpace(field)
		}

		if headers == nil {
			headers = record
			continue
		}
		rows = append(rows, record)
	}

	if headers == nil {
		return nil, eris.New("tabular: csv file is empty")
	}

	return NewTable(headers, rows), nil
}

// ReadXLSX reads one worksheet of an XLSX workbook. The first row is the
// header.
func ReadXLSX(path string, sheet int) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: open %s", path)
	}

	if sheet < 0 || sheet >= len(f.Sheets) {
		return nil, eris.Errorf("tabular: sheet index %d out of range (file has %d sheets)", sheet, len(f.Sheets))
	}

	var headers []string
	var rows [][]string
	for i, row := range f.Sheets[sheet].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}

		if i == 0 {
			headers = cells
			continue
		}
		rows = append(rows, cells)
	}

	if headers == nil {
		return nil, eris.New("tabular: worksheet is empty")
	}

	return NewTable(headers, rows), nil
}
