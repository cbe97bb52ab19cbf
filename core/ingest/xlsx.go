package ingest

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"reconciler/core/dataset"
)

// loadXLSX reads the first sheet of a workbook. Cells come back as the
// rendered strings, so the same column-wise inference as delimited files
// applies.
func loadXLSX(r io.Reader) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := rows[0]
	raw := make([][]string, len(header))
	for _, row := range rows[1:] {
		for i := range header {
			cell := ""
			if i < len(row) {
				cell = row[i]
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
