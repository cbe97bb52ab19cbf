package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"reconciler/core/dataset"
)

// Format identifies a supported tabular file format.
type Format string

const (
	// FormatCSV is comma-separated values.
	FormatCSV Format = "csv"
	// FormatTSV is tab-separated values.
	FormatTSV Format = "tsv"
	// FormatJSON is an array of JSON record objects.
	FormatJSON Format = "json"
	// FormatXLSX is an Excel workbook; the first sheet is loaded.
	FormatXLSX Format = "xlsx"
)

// FormatForPath derives the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file format %q (expected .csv, .tsv, .json, or .xlsx)", filepath.Ext(path))
	}
}

// Loader reads tabular files into datasets.
type Loader struct {
	logger *zap.Logger
}

// NewLoader returns a loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile reads a file, picking the format from its extension.
func (l *Loader) LoadFile(path string) (*dataset.Dataset, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := l.Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	l.logger.Info("loaded dataset",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", ds.RowCount()),
		zap.Int("columns", ds.ColumnCount()),
	)
	return ds, nil
}

// Load reads a dataset from a reader in the given format.
func (l *Loader) Load(r io.Reader, format Format) (*dataset.Dataset, error) {
	switch format {
	case FormatCSV:
		return loadDelimited(r, ',')
	case FormatTSV:
		return loadDelimited(r, '\t')
	case FormatJSON:
		return loadJSON(r)
	case FormatXLSX:
		return loadXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
