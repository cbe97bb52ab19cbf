package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"reconciler/core/dataset"
	"reconciler/core/utils"
)

// loadDelimited reads a delimited file: first row is the header, every other
// row is a record. Short rows are padded with blanks.
func loadDelimited(r io.Reader, comma rune) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	raw := make([][]string, len(header))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		for i := range header {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			raw[i] = append(raw[i], cell)
		}
	}

	columns := make([]dataset.Column, len(header))
	for i, name := range header {
		columns[i] = dataset.Column{Name: name, Values: inferCells(raw[i])}
	}
	return dataset.New(columns)
}

// inferCells types a string column as a whole: a column where every non-blank
// cell parses as a boolean becomes boolean, then numeric, otherwise text.
// Blank cells and conventional missing-value markers become nulls either way.
func inferCells(cells []string) []dataset.Value {
	allBool, allNumber := true, true
	nonBlank := 0
	for _, cell := range cells {
		if utils.IsBlank(cell) {
			continue
		}
		nonBlank++
		if _, ok := utils.ParseBool(cell); !ok {
			allBool = false
		}
		if _, ok := utils.ParseNumber(cell); !ok {
			allNumber = false
		}
	}

	values := make([]dataset.Value, len(cells))
	for i, cell := range cells {
		switch {
		case utils.IsBlank(cell):
			values[i] = dataset.Null()
		case nonBlank > 0 && allBool:
			b, _ := utils.ParseBool(cell)
			values[i] = dataset.Bool(b)
		case nonBlank > 0 && allNumber:
			n, _ := utils.ParseNumber(cell)
			values[i] = dataset.Number(n)
		default:
			values[i] = dataset.Text(cell)
		}
	}
	return values
}
