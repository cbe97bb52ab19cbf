package reconcile

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reconciler/core/dataset"
)

// keyJoiner separates key parts inside a composite key string.
const keyJoiner = "|"

// Engine executes reconciliation runs for one configuration.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine validates the configuration and returns an engine bound to it.
func NewEngine(cfg Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.validate(logger); err != nil {
		return nil, fmt.Errorf("invalid reconciliation config: %w", err)
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// keyIndex maps each composite key to the first row that produced it and
// counts rows discarded as duplicates.
type keyIndex struct {
	firstRow   map[string]int
	order      []string
	duplicates int
}

// Reconcile matches the two datasets on the configured key columns and
// compares the configured columns for every matched key. The inputs are never
// modified; normalization happens on working copies and all reported values
// are the originals.
func (e *Engine) Reconcile(source, target *dataset.Dataset) (*Result, error) {
	started := time.Now()

	if source == nil || source.RowCount() == 0 {
		return nil, fmt.Errorf("source dataset %q is empty", e.cfg.SourceName)
	}
	if target == nil || target.RowCount() == 0 {
		return nil, fmt.Errorf("target dataset %q is empty", e.cfg.TargetName)
	}
	if err := e.checkColumns(source, target); err != nil {
		return nil, err
	}

	normSource := e.normalize(source)
	normTarget := e.normalize(target)

	sourceKeys := e.buildKeyIndex(normSource, e.cfg.SourceName)
	targetKeys := e.buildKeyIndex(normTarget, e.cfg.TargetName)

	var matched []string
	var unmatchedSourceRows, unmatchedTargetRows []int
	for _, key := range sourceKeys.order {
		if _, ok := targetKeys.firstRow[key]; ok {
			matched = append(matched, key)
		} else {
			unmatchedSourceRows = append(unmatchedSourceRows, sourceKeys.firstRow[key])
		}
	}
	for _, key := range targetKeys.order {
		if _, ok := sourceKeys.firstRow[key]; !ok {
			unmatchedTargetRows = append(unmatchedTargetRows, targetKeys.firstRow[key])
		}
	}

	// Sorting matched keys makes the mismatch order independent of input
	// row order.
	sort.Strings(matched)

	var mismatches []Mismatch
	pairsWithMismatch := 0
	for _, key := range matched {
		srcRow := sourceKeys.firstRow[key]
		tgtRow := targetKeys.firstRow[key]
		before := len(mismatches)
		for _, col := range e.cfg.CompareColumns {
			a := normSource.Cell(col, srcRow)
			b := normTarget.Cell(col, tgtRow)
			equal, diff := e.compareValues(a, b, e.cfg.toleranceFor(col))
			if equal {
				continue
			}
			mismatches = append(mismatches, Mismatch{
				Key:         key,
				Column:      col,
				SourceValue: source.Cell(col, srcRow).Interface(),
				TargetValue: target.Cell(col, tgtRow).Interface(),
				Difference:  diff,
				KeyValues:   e.keyValues(source, srcRow),
			})
		}
		if len(mismatches) > before {
			pairsWithMismatch++
		}
	}

	summary := Summary{
		TotalSourceRecords:     source.RowCount(),
		TotalTargetRecords:     target.RowCount(),
		MatchedRecords:         len(matched),
		UnmatchedSourceRecords: len(unmatchedSourceRows),
		UnmatchedTargetRecords: len(unmatchedTargetRows),
		MismatchedValues:       len(mismatches),
		MatchRate:              rate(len(matched), len(sourceKeys.order)),
		AccuracyRate:           rate(len(matched)-pairsWithMismatch, len(matched)),
		ProcessingTimeSeconds:  time.Since(started).Seconds(),
		SourceDuplicateKeys:    sourceKeys.duplicates,
		TargetDuplicateKeys:    targetKeys.duplicates,
	}

	e.logger.Info("reconciliation complete",
		zap.String("source", e.cfg.SourceName),
		zap.String("target", e.cfg.TargetName),
		zap.Int("matched", summary.MatchedRecords),
		zap.Int("unmatched_source", summary.UnmatchedSourceRecords),
		zap.Int("unmatched_target", summary.UnmatchedTargetRecords),
		zap.Int("mismatched_values", summary.MismatchedValues),
		zap.Float64("match_rate", summary.MatchRate),
		zap.Float64("accuracy_rate", summary.AccuracyRate),
	)

	return &Result{
		RunID:           uuid.NewString(),
		MatchedCount:    len(matched),
		UnmatchedSource: source.Select(unmatchedSourceRows),
		UnmatchedTarget: target.Select(unmatchedTargetRows),
		Mismatches:      mismatches,
		Summary:         summary,
		Timestamp:       time.Now(),
	}, nil
}

// checkColumns verifies both sides carry every key and compare column,
// reporting all missing columns per side at once.
func (e *Engine) checkColumns(source, target *dataset.Dataset) error {
	var errs []error
	for _, side := range []struct {
		ds   *dataset.Dataset
		name string
		role string
	}{
		{source, e.cfg.SourceName, "source"},
		{target, e.cfg.TargetName, "target"},
	} {
		if missing := missingColumns(side.ds, e.cfg.KeyColumns); len(missing) > 0 {
			errs = append(errs, fmt.Errorf("%s dataset %q is missing key column(s): %s",
				side.role, side.name, strings.Join(missing, ", ")))
		}
		if missing := missingColumns(side.ds, e.cfg.CompareColumns); len(missing) > 0 {
			errs = append(errs, fmt.Errorf("%s dataset %q is missing compare column(s): %s",
				side.role, side.name, strings.Join(missing, ", ")))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func missingColumns(ds *dataset.Dataset, cols []string) []string {
	var missing []string
	for _, col := range cols {
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// normalize applies the configured text and date normalizations to a working
// copy. Date parse failures leave the cell unchanged.
func (e *Engine) normalize(ds *dataset.Dataset) *dataset.Dataset {
	out := ds.Clone()
	for _, name := range out.ColumnNames() {
		col, _ := out.Column(name)
		for i, v := range col.Values {
			if v.Kind() != dataset.KindText {
				continue
			}
			s := v.Text()
			if e.cfg.TrimWhitespace {
				s = strings.TrimSpace(s)
			}
			if e.cfg.IgnoreCase {
				s = strings.ToLower(s)
			}
			if e.cfg.DateFormat != "" {
				if ts, err := time.Parse(e.cfg.DateFormat, strings.TrimSpace(v.Text())); err == nil {
					col.Values[i] = dataset.Time(ts)
					continue
				}
			}
			col.Values[i] = dataset.Text(s)
		}
	}
	return out
}

// buildKeyIndex maps composite keys to their first occurrence. Later rows
// with an already-seen key are counted as duplicates and logged.
func (e *Engine) buildKeyIndex(ds *dataset.Dataset, name string) *keyIndex {
	idx := &keyIndex{firstRow: make(map[string]int, ds.RowCount())}
	parts := make([]string, len(e.cfg.KeyColumns))
	for row := 0; row < ds.RowCount(); row++ {
		for i, col := range e.cfg.KeyColumns {
			parts[i] = ds.Cell(col, row).String()
		}
		key := strings.Join(parts, keyJoiner)
		if _, seen := idx.firstRow[key]; seen {
			idx.duplicates++
			continue
		}
		idx.firstRow[key] = row
		idx.order = append(idx.order, key)
	}
	if idx.duplicates > 0 {
		e.logger.Warn("duplicate composite keys; keeping the first row per key",
			zap.String("dataset", name),
			zap.Int("duplicate_rows", idx.duplicates),
		)
	}
	return idx
}

// compareValues reports whether two normalized cells agree. Two nulls agree;
// a null against a value never does. Numeric pairs agree within the
// tolerance, boundary included, and report their absolute difference when
// they disagree.
func (e *Engine) compareValues(a, b dataset.Value, tolerance float64) (bool, *float64) {
	if a.IsNull() && b.IsNull() {
		return true, nil
	}
	if a.IsNull() || b.IsNull() {
		return false, nil
	}
	if a.Kind() == dataset.KindNumber && b.Kind() == dataset.KindNumber {
		diff := math.Abs(a.Number() - b.Number())
		if diff <= tolerance {
			return true, nil
		}
		return false, &diff
	}
	return a.Equal(b), nil
}

// keyValues echoes the key-column cells of an original source row.
func (e *Engine) keyValues(source *dataset.Dataset, row int) map[string]any {
	out := make(map[string]any, len(e.cfg.KeyColumns))
	for _, col := range e.cfg.KeyColumns {
		out[col] = source.Cell(col, row).Interface()
	}
	return out
}

// rate returns part/whole as a percentage, 0 for an empty whole.
func rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
