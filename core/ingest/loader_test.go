package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reconciler/core/dataset"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"data/bank.csv", FormatCSV},
		{"Bank.CSV", FormatCSV},
		{"ledger.tsv", FormatTSV},
		{"records.json", FormatJSON},
		{"report.xlsx", FormatXLSX},
	}
	for _, tt := range tests {
		got, err := FormatForPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatForPath("statement.pdf")
	assert.ErrorContains(t, err, `unsupported file format ".pdf"`)
	_, err = FormatForPath("noext")
	assert.Error(t, err)
}

func TestLoader_CSV(t *testing.T) {
	input := strings.Join([]string{
		"txn_id,amount,active,note",
		"T1,100.50,true,first",
		"T2,NULL,false,",
		"T3,-7,yes,third",
	}, "\n")

	ds, err := NewLoader(zap.NewNop()).Load(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.RowCount())
	assert.Equal(t, []string{"txn_id", "amount", "active", "note"}, ds.ColumnNames())

	assert.Equal(t, dataset.Text("T1"), ds.Cell("txn_id", 0))
	assert.Equal(t, dataset.Number(100.5), ds.Cell("amount", 0))
	assert.True(t, ds.Cell("amount", 1).IsNull(), "NULL marker becomes a null cell")
	assert.Equal(t, dataset.Number(-7), ds.Cell("amount", 2))
	assert.Equal(t, dataset.Bool(true), ds.Cell("active", 0))
	assert.Equal(t, dataset.Bool(true), ds.Cell("active", 2), "yes parses as a boolean")
	assert.True(t, ds.Cell("note", 1).IsNull())
}

func TestLoader_CSVMixedColumnStaysText(t *testing.T) {
	input := "code\n42\nabc\n"
	ds, err := NewLoader(zap.NewNop()).Load(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)

	// One non-numeric cell keeps the whole column textual.
	assert.Equal(t, dataset.Text("42"), ds.Cell("code", 0))
	assert.Equal(t, dataset.Text("abc"), ds.Cell("code", 1))
}

func TestLoader_CSVShortRowsPadded(t *testing.T) {
	input := "a,b,c\n1,2,3\n4,5\n"
	ds, err := NewLoader(zap.NewNop()).Load(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.RowCount())
	assert.True(t, ds.Cell("c", 1).IsNull())
}

func TestLoader_CSVEmpty(t *testing.T) {
	_, err := NewLoader(zap.NewNop()).Load(strings.NewReader(""), FormatCSV)
	assert.ErrorContains(t, err, "file is empty")
}

func TestLoader_TSV(t *testing.T) {
	input := "id\tamount\nT1\t5\n"
	ds, err := NewLoader(zap.NewNop()).Load(strings.NewReader(input), FormatTSV)
	require.NoError(t, err)
	assert.Equal(t, dataset.Number(5), ds.Cell("amount", 0))
}

func TestLoader_JSON(t *testing.T) {
	input := `[
		{"txn_id": "T1", "amount": 100.5, "active": true},
		{"txn_id": "T2", "amount": null, "active": false, "note": "late"}
	]`
	ds, err := NewLoader(zap.NewNop()).Load(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, dataset.Number(100.5), ds.Cell("amount", 0))
	assert.True(t, ds.Cell("amount", 1).IsNull())
	assert.Equal(t, dataset.Bool(false), ds.Cell("active", 1))
	assert.True(t, ds.Cell("note", 0).IsNull(), "fields missing from a record are nulls")
}

func TestLoader_JSONRejectsNested(t *testing.T) {
	input := `[{"txn_id": "T1", "meta": {"a": 1}}]`
	_, err := NewLoader(zap.NewNop()).Load(strings.NewReader(input), FormatJSON)
	assert.ErrorContains(t, err, "nested")
}

func TestLoader_JSONEmpty(t *testing.T) {
	_, err := NewLoader(zap.NewNop()).Load(strings.NewReader("[]"), FormatJSON)
	assert.ErrorContains(t, err, "no records")
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.csv")
	require.NoError(t, writeFile(path, "id,amount\nT1,5\n"))

	ds, err := NewLoader(zap.NewNop()).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.RowCount())

	_, err = NewLoader(zap.NewNop()).LoadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, err = NewLoader(zap.NewNop()).LoadFile(filepath.Join(dir, "bank.parquet"))
	assert.ErrorContains(t, err, "unsupported file format")
}
