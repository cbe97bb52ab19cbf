package reconcile

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"reconciler/core/storage/mocks"
)

func testResult(t *testing.T) *Result {
	e, err := NewEngine(testConfig(), zap.NewNop())
	require.NoError(t, err)
	result, err := e.Reconcile(sourceData(t), targetData(t))
	require.NoError(t, err)
	return result
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"csv", "excel", "both"} {
		f, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, ExportFormat(valid), f)
	}
	_, err := ParseFormat("pdf")
	assert.ErrorContains(t, err, `unknown export format "pdf"`)
}

func TestExporter_CSV(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(testConfig(), zap.NewNop())
	require.NoError(t, exp.Export(testResult(t), filepath.Join(dir, "out"), FormatCSV))

	out := filepath.Join(dir, "out")

	f, err := os.Open(filepath.Join(out, "unmatched_bank.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"txn_id", "amount", "status"}, rows[0])
	assert.Equal(t, "T4", rows[1][0])

	m, err := os.Open(filepath.Join(out, "mismatches.csv"))
	require.NoError(t, err)
	defer m.Close()
	rows, err = csv.NewReader(m).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"key", "column", "source_value", "target_value", "difference"}, rows[0])
	assert.Equal(t, []string{"T1", "amount", "100", "100.5", "0.5"}, rows[1])
	assert.Equal(t, "", rows[2][4], "non-numeric mismatches carry no difference")

	assert.FileExists(t, filepath.Join(out, "unmatched_ledger.csv"))
	assert.NoFileExists(t, filepath.Join(out, "reconciliation_report.xlsx"))
}

func TestExporter_SkipsEmptySections(t *testing.T) {
	cfg := testConfig()
	e, err := NewEngine(cfg, zap.NewNop())
	require.NoError(t, err)

	// Identical datasets: nothing unmatched, nothing mismatched.
	result, err := e.Reconcile(sourceData(t), sourceData(t))
	require.NoError(t, err)

	dir := t.TempDir()
	exp := NewExporter(cfg, zap.NewNop())
	require.NoError(t, exp.Export(result, dir, FormatCSV))

	assert.NoFileExists(t, filepath.Join(dir, "unmatched_bank.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "unmatched_ledger.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "mismatches.csv"))
	assert.FileExists(t, filepath.Join(dir, "summary.json"), "the summary document is always written")
}

func TestExporter_SummaryDocument(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(testConfig(), zap.NewNop())
	result := testResult(t)
	require.NoError(t, exp.Export(result, dir, FormatCSV))

	raw, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, result.RunID, doc["run_id"])
	assert.Equal(t, 4.0, doc["total_source_records"])
	assert.Equal(t, 3.0, doc["matched_records"])
	assert.Equal(t, 75.0, doc["match_rate"])
	assert.Contains(t, doc, "accuracy_rate")
	assert.Contains(t, doc, "source_duplicate_keys")
	assert.Contains(t, doc, "processing_time_seconds")
	assert.Contains(t, doc, "timestamp")
}

func TestExporter_Excel(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(testConfig(), zap.NewNop())
	require.NoError(t, exp.Export(testResult(t), dir, FormatExcel))

	path := filepath.Join(dir, "reconciliation_report.xlsx")
	require.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{"Summary", "Unmatched Source", "Unmatched Target", "Mismatches"},
		f.GetSheetList())

	rows, err := f.GetRows("Mismatches")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Key", "Column", "Source value", "Target value", "Difference"}, rows[0])
}

func TestExporter_Both(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(testConfig(), zap.NewNop())
	require.NoError(t, exp.Export(testResult(t), dir, FormatBoth))

	assert.FileExists(t, filepath.Join(dir, "unmatched_bank.csv"))
	assert.FileExists(t, filepath.Join(dir, "reconciliation_report.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "summary.json"))
}

func TestExporter_UploadDir(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(testConfig(), zap.NewNop())
	require.NoError(t, exp.Export(testResult(t), dir, FormatCSV))

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "exports").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "exports", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "exports", mock.AnythingOfType("string"),
		mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	err := exp.UploadDir(context.Background(), client, "exports", dir, "runs/2024-03-01")
	require.NoError(t, err)

	client.AssertCalled(t, "MakeBucket", mock.Anything, "exports", mock.Anything)
	uploads := 0
	for _, call := range client.Calls {
		if call.Method != "PutObject" {
			continue
		}
		uploads++
		object := call.Arguments.String(2)
		assert.True(t, len(object) > len("runs/2024-03-01/"), object)
		reader := call.Arguments.Get(3).(io.Reader)
		assert.NotNil(t, reader)
	}
	// unmatched_bank, unmatched_ledger, mismatches, summary.
	assert.Equal(t, 4, uploads)
}
