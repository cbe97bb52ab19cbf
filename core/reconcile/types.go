package reconcile

import (
	"time"

	"reconciler/core/dataset"
)

// Config defines one reconciliation run: which columns form the match key,
// which columns are compared, and how values are normalized before
// comparison.
type Config struct {
	// SourceName labels the source dataset in reports and export artifacts.
	SourceName string `json:"source_name"`

	// TargetName labels the target dataset.
	TargetName string `json:"target_name"`

	// KeyColumns form the composite match key, in order. Order matters:
	// key parts are joined positionally.
	KeyColumns []string `json:"key_columns"`

	// CompareColumns are compared field-by-field for matched keys.
	CompareColumns []string `json:"compare_columns"`

	// Tolerance maps a column to the maximum absolute numeric difference
	// still counting as a match. Columns without an entry require exact
	// equality.
	Tolerance map[string]float64 `json:"tolerance,omitempty"`

	// IgnoreCase lower-cases text values before comparison.
	IgnoreCase bool `json:"ignore_case"`

	// TrimWhitespace strips leading/trailing whitespace from text values
	// before comparison.
	TrimWhitespace bool `json:"trim_whitespace"`

	// DateFormat, when set, is the Go reference layout used to parse text
	// columns into dates during normalization. Values that fail to parse
	// are left as-is.
	DateFormat string `json:"date_format,omitempty"`
}

// toleranceFor returns the allowed numeric difference for a column,
// defaulting to exact equality.
func (c *Config) toleranceFor(column string) float64 {
	if c.Tolerance == nil {
		return 0
	}
	return c.Tolerance[column]
}

// Mismatch records one disagreeing field of one matched key pair.
type Mismatch struct {
	// Key is the composite key shared by the two rows.
	Key string `json:"key"`

	// Column is the compare column that disagreed.
	Column string `json:"column"`

	// SourceValue and TargetValue are the original (pre-normalization)
	// cell values.
	SourceValue any `json:"source_value"`
	TargetValue any `json:"target_value"`

	// Difference is the absolute numeric difference, present only when
	// both values were numeric.
	Difference *float64 `json:"difference,omitempty"`

	// KeyValues echoes the key-column values from the original source row
	// for context.
	KeyValues map[string]any `json:"key_values"`
}

// Summary aggregates the counts and rates of one reconciliation run. Field
// names match the machine-readable summary document keys.
type Summary struct {
	TotalSourceRecords     int     `json:"total_source_records"`
	TotalTargetRecords     int     `json:"total_target_records"`
	MatchedRecords         int     `json:"matched_records"`
	UnmatchedSourceRecords int     `json:"unmatched_source_records"`
	UnmatchedTargetRecords int     `json:"unmatched_target_records"`
	MismatchedValues       int     `json:"mismatched_values"`
	MatchRate              float64 `json:"match_rate"`
	AccuracyRate           float64 `json:"accuracy_rate"`
	ProcessingTimeSeconds  float64 `json:"processing_time_seconds"`
	SourceDuplicateKeys    int     `json:"source_duplicate_keys"`
	TargetDuplicateKeys    int     `json:"target_duplicate_keys"`
}

// Result is the immutable outcome of one Reconcile call. Unmatched subsets
// carry the original rows with original values.
type Result struct {
	// RunID uniquely identifies this reconciliation run.
	RunID string `json:"run_id"`

	// MatchedCount is the number of composite keys present on both sides.
	MatchedCount int `json:"matched_count"`

	// UnmatchedSource holds source rows whose key has no target
	// counterpart.
	UnmatchedSource *dataset.Dataset `json:"-"`

	// UnmatchedTarget holds target rows whose key has no source
	// counterpart.
	UnmatchedTarget *dataset.Dataset `json:"-"`

	// Mismatches lists field-level disagreements, ordered by composite key
	// then compare-column order.
	Mismatches []Mismatch `json:"mismatches"`

	// Summary carries the aggregate counts and rates.
	Summary Summary `json:"summary"`

	// Timestamp is when the run completed.
	Timestamp time.Time `json:"timestamp"`
}
