package ingest

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"reconciler/core/dataset"
)

// LoadQuery runs a query and builds a dataset from the result, preserving
// the result set's column order. Database NULLs become null cells; []byte
// columns (MySQL text results) become text cells.
func (l *Loader) LoadQuery(db *gorm.DB, query string, args ...any) (*dataset.Dataset, error) {
	rows, err := db.Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read result columns: %w", err)
	}
	if len(names) == 0 {
		return nil, errors.New("query returned no columns")
	}

	columns := make([]dataset.Column, len(names))
	for i, name := range names {
		columns[i] = dataset.Column{Name: name}
	}

	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i := range names {
			columns[i].Values = append(columns[i].Values, dataset.ValueOf(values[i]))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	ds, err := dataset.New(columns)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loaded dataset from query",
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()),
	)
	return ds, nil
}
