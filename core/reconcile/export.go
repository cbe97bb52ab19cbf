package reconcile

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"reconciler/core/dataset"
	"reconciler/core/storage"
)

// ExportFormat selects which tabular artifacts Export writes.
type ExportFormat string

const (
	// FormatCSV writes one CSV file per non-empty result section.
	FormatCSV ExportFormat = "csv"
	// FormatExcel writes a single multi-sheet workbook.
	FormatExcel ExportFormat = "excel"
	// FormatBoth writes both CSV files and the workbook.
	FormatBoth ExportFormat = "both"
)

// ParseFormat maps a user-supplied format name to an ExportFormat.
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatCSV, FormatExcel, FormatBoth:
		return ExportFormat(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected csv, excel, or both)", s)
	}
}

// Exporter writes reconciliation results to disk and optionally to object
// storage.
type Exporter struct {
	cfg    Config
	logger *zap.Logger
}

// NewExporter returns an exporter for results produced under cfg. The
// source and target names label the export artifacts.
func NewExporter(cfg Config, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{cfg: cfg, logger: logger}
}

// Export writes the result artifacts into outputDir, creating it if needed.
// Each artifact is attempted independently; failures are joined so one broken
// file does not suppress the rest. The summary document is always written.
func (e *Exporter) Export(result *Result, outputDir string, format ExportFormat) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var errs []error
	if format == FormatCSV || format == FormatBoth {
		errs = append(errs, e.exportCSV(result, outputDir))
	}
	if format == FormatExcel || format == FormatBoth {
		if err := e.exportExcel(result, outputDir); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.exportSummary(result, outputDir); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// exportCSV writes unmatched and mismatch CSVs, skipping empty sections.
func (e *Exporter) exportCSV(result *Result, outputDir string) error {
	var errs []error

	writeDS := func(ds *dataset.Dataset, name string) {
		if ds == nil || ds.RowCount() == 0 {
			return
		}
		path := filepath.Join(outputDir, name)
		if err := writeDatasetCSV(ds, path); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", name, err))
			return
		}
		e.logger.Info("wrote export artifact", zap.String("path", path), zap.Int("rows", ds.RowCount()))
	}
	writeDS(result.UnmatchedSource, fmt.Sprintf("unmatched_%s.csv", e.cfg.SourceName))
	writeDS(result.UnmatchedTarget, fmt.Sprintf("unmatched_%s.csv", e.cfg.TargetName))

	if len(result.Mismatches) > 0 {
		path := filepath.Join(outputDir, "mismatches.csv")
		if err := writeMismatchCSV(result.Mismatches, path); err != nil {
			errs = append(errs, fmt.Errorf("write mismatches.csv: %w", err))
		} else {
			e.logger.Info("wrote export artifact", zap.String("path", path), zap.Int("rows", len(result.Mismatches)))
		}
	}
	return errors.Join(errs...)
}

// exportExcel writes one workbook with a sheet per result section.
func (e *Exporter) exportExcel(result *Result, outputDir string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Summary")
	if err := writeSummarySheet(f, "Summary", result.Summary); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}
	if err := writeDatasetSheet(f, "Unmatched Source", result.UnmatchedSource); err != nil {
		return fmt.Errorf("write unmatched source sheet: %w", err)
	}
	if err := writeDatasetSheet(f, "Unmatched Target", result.UnmatchedTarget); err != nil {
		return fmt.Errorf("write unmatched target sheet: %w", err)
	}
	if err := writeMismatchSheet(f, "Mismatches", result.Mismatches); err != nil {
		return fmt.Errorf("write mismatch sheet: %w", err)
	}

	path := filepath.Join(outputDir, "reconciliation_report.xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	e.logger.Info("wrote export artifact", zap.String("path", path))
	return nil
}

// exportSummary writes the machine-readable summary document.
func (e *Exporter) exportSummary(result *Result, outputDir string) error {
	doc := struct {
		RunID string `json:"run_id"`
		Summary
		Timestamp string `json:"timestamp"`
	}{
		RunID:     result.RunID,
		Summary:   result.Summary,
		Timestamp: result.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	path := filepath.Join(outputDir, "summary.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write summary.json: %w", err)
	}
	e.logger.Info("wrote export artifact", zap.String("path", path))
	return nil
}

// UploadDir copies every file in dir to object storage under prefix,
// creating the bucket if it does not exist.
func (e *Exporter) UploadDir(ctx context.Context, client storage.Client, bucket, dir, prefix string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %q: %w", bucket, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read export directory: %w", err)
	}
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", entry.Name(), err))
			continue
		}
		object := filepath.ToSlash(filepath.Join(prefix, entry.Name()))
		_, err = client.PutObject(ctx, bucket, object, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{})
		if err != nil {
			errs = append(errs, fmt.Errorf("upload %s: %w", object, err))
			continue
		}
		e.logger.Info("uploaded export artifact",
			zap.String("bucket", bucket),
			zap.String("object", object),
		)
	}
	return errors.Join(errs...)
}

func writeDatasetCSV(ds *dataset.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.ColumnNames()); err != nil {
		return err
	}
	for row := 0; row < ds.RowCount(); row++ {
		record := make([]string, 0, ds.ColumnCount())
		for _, v := range ds.Row(row) {
			record = append(record, v.String())
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeMismatchCSV(mismatches []Mismatch, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"key", "column", "source_value", "target_value", "difference"}); err != nil {
		return err
	}
	for _, m := range mismatches {
		diff := ""
		if m.Difference != nil {
			diff = strconv.FormatFloat(*m.Difference, 'f', -1, 64)
		}
		record := []string{
			m.Key,
			m.Column,
			dataset.ValueOf(m.SourceValue).String(),
			dataset.ValueOf(m.TargetValue).String(),
			diff,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeSummarySheet(f *excelize.File, sheet string, s Summary) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Total source records", s.TotalSourceRecords},
		{"Total target records", s.TotalTargetRecords},
		{"Matched records", s.MatchedRecords},
		{"Unmatched source records", s.UnmatchedSourceRecords},
		{"Unmatched target records", s.UnmatchedTargetRecords},
		{"Mismatched values", s.MismatchedValues},
		{"Match rate (%)", s.MatchRate},
		{"Accuracy rate (%)", s.AccuracyRate},
		{"Source duplicate keys", s.SourceDuplicateKeys},
		{"Target duplicate keys", s.TargetDuplicateKeys},
		{"Processing time (s)", s.ProcessingTimeSeconds},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeDatasetSheet(f *excelize.File, sheet string, ds *dataset.Dataset) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if ds == nil || ds.RowCount() == 0 {
		return nil
	}
	header := make([]any, 0, ds.ColumnCount())
	for _, name := range ds.ColumnNames() {
		header = append(header, name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for row := 0; row < ds.RowCount(); row++ {
		cells := make([]any, 0, ds.ColumnCount())
		for _, v := range ds.Row(row) {
			cells = append(cells, v.Interface())
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

func writeMismatchSheet(f *excelize.File, sheet string, mismatches []Mismatch) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Key", "Column", "Source value", "Target value", "Difference"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, m := range mismatches {
		var diff any
		if m.Difference != nil {
			diff = *m.Difference
		}
		row := []any{m.Key, m.Column, m.SourceValue, m.TargetValue, diff}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
