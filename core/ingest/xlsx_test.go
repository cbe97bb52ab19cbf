package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"reconciler/core/dataset"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoader_XLSX(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"txn_id", "amount", "status"},
		{"T1", 100.5, "settled"},
		{"T2", 50, "pending"},
	})

	ds, err := NewLoader(zap.NewNop()).LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, []string{"txn_id", "amount", "status"}, ds.ColumnNames())
	assert.Equal(t, dataset.Number(100.5), ds.Cell("amount", 0))
	assert.Equal(t, dataset.Number(50), ds.Cell("amount", 1))
	assert.Equal(t, dataset.Text("settled"), ds.Cell("status", 0))
}

func TestLoader_XLSXShortRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"a", "b"},
		{"x"},
	})

	ds, err := NewLoader(zap.NewNop()).LoadFile(path)
	require.NoError(t, err)
	assert.True(t, ds.Cell("b", 0).IsNull())
}

func TestLoader_XLSXEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))

	_, err := NewLoader(zap.NewNop()).LoadFile(path)
	assert.ErrorContains(t, err, "is empty")
}
