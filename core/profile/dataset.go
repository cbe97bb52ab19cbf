package profile

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"reconciler/core/dataset"
)

// DatasetProfiler runs the column profiler over every column of a dataset,
// searches for key candidates, and aggregates quality findings.
type DatasetProfiler struct {
	columns *ColumnProfiler
	logger  *zap.Logger
}

// NewDatasetProfiler creates a dataset profiler. The logger is required;
// profiling surfaces data anomalies as log warnings, never as errors.
func NewDatasetProfiler(opts Options, logger *zap.Logger) *DatasetProfiler {
	return &DatasetProfiler{
		columns: NewColumnProfiler(opts),
		logger:  logger,
	}
}

// maxKeyCandidates bounds the candidate key list.
const maxKeyCandidates = 5

// Profile profiles every column of the dataset. A column that fails to
// profile is logged and omitted; the dataset as a whole only fails when no
// column could be profiled at all.
func (p *DatasetProfiler) Profile(ds *dataset.Dataset, name string) (*DatasetProfile, error) {
	rows := ds.RowCount()
	p.logger.Info("Profiling dataset",
		zap.String("dataset", name),
		zap.Int("rows", rows),
		zap.Int("columns", ds.ColumnCount()),
	)

	profiles := make(map[string]*ColumnProfile, ds.ColumnCount())
	for _, colName := range ds.ColumnNames() {
		col, _ := ds.Column(colName)
		cp, err := p.columns.Profile(col, rows)
		if err != nil {
			p.logger.Error("Error profiling column",
				zap.String("dataset", name),
				zap.String("column", colName),
				zap.Error(err),
			)
			continue
		}
		profiles[colName] = cp
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("dataset %q: no columns could be profiled", name)
	}

	candidates := findCandidateKeys(ds, profiles)
	transformations := recommendTransformations(ds.ColumnNames(), profiles)
	qualityIssues := identifyQualityIssues(ds.ColumnNames(), profiles)

	total := 0.0
	for _, cp := range profiles {
		total += cp.QualityScore
	}
	overall := total / float64(len(profiles))

	p.logger.Info("Dataset profiling complete",
		zap.String("dataset", name),
		zap.Float64("quality_score", overall),
	)

	return &DatasetProfile{
		Name:                       name,
		RowCount:                   rows,
		ColumnCount:                ds.ColumnCount(),
		ColumnProfiles:             profiles,
		CandidateKeyColumns:        candidates,
		RecommendedTransformations: transformations,
		DataQualityIssues:          qualityIssues,
		OverallQualityScore:        overall,
	}, nil
}

// findCandidateKeys collects single-column candidates flagged key-suitable,
// then tests 2-column combinations of highly unique, low-null columns for
// joint uniqueness. Singles sort before pairs, then by combined uniqueness.
func findCandidateKeys(ds *dataset.Dataset, profiles map[string]*ColumnProfile) [][]string {
	var candidates [][]string

	ordered := orderedProfiled(ds.ColumnNames(), profiles)
	for _, name := range ordered {
		if profiles[name].RecommendedForKey {
			candidates = append(candidates, []string{name})
		}
	}

	var highUnique []string
	for _, name := range ordered {
		cp := profiles[name]
		if cp.UniquePercentage > 80 && cp.NullPercentage < 10 {
			highUnique = append(highUnique, name)
		}
	}

	for i, col1 := range highUnique {
		for _, col2 := range highUnique[i+1:] {
			if jointDistinctPercentage(ds, col1, col2) >= 95 {
				candidates = append(candidates, []string{col1, col2})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) < len(candidates[j])
		}
		return summedUniqueness(candidates[i], profiles) > summedUniqueness(candidates[j], profiles)
	})

	if len(candidates) > maxKeyCandidates {
		candidates = candidates[:maxKeyCandidates]
	}
	return candidates
}

// jointDistinctPercentage measures how unique a column pair is taken jointly.
func jointDistinctPercentage(ds *dataset.Dataset, col1, col2 string) float64 {
	rows := ds.RowCount()
	if rows == 0 {
		return 0
	}
	c1, _ := ds.Column(col1)
	c2, _ := ds.Column(col2)

	type pairKey struct{ a, b valueKey }
	distinct := make(map[pairKey]struct{}, rows)
	for r := 0; r < rows; r++ {
		distinct[pairKey{keyOf(c1.Values[r]), keyOf(c2.Values[r])}] = struct{}{}
	}
	return float64(len(distinct)) / float64(rows) * 100
}

func summedUniqueness(cols []string, profiles map[string]*ColumnProfile) float64 {
	total := 0.0
	for _, c := range cols {
		total += profiles[c].UniquePercentage
	}
	return total
}

// recommendTransformations maps per-column findings to cleanup steps.
func recommendTransformations(order []string, profiles map[string]*ColumnProfile) []Transformation {
	var out []Transformation
	for _, name := range orderedProfiled(order, profiles) {
		cp := profiles[name]

		if cp.InferredType == TypeDateString {
			out = append(out, Transformation{
				Column:         name,
				Transformation: TransformParseDate,
				Reason:         "Column appears to contain dates as strings",
				Priority:       PriorityHigh,
			})
		}
		if cp.HasIssue(IssueWhitespace) {
			out = append(out, Transformation{
				Column:         name,
				Transformation: TransformTrimWhitespace,
				Reason:         "Leading/trailing whitespace detected",
				Priority:       PriorityHigh,
			})
		}
		if cp.HasIssue(IssueCaseInconsistency) {
			out = append(out, Transformation{
				Column:         name,
				Transformation: TransformNormalizeCase,
				Reason:         "Inconsistent casing detected",
				Priority:       PriorityMedium,
			})
		}
		if cp.InferredType == TypeNumericAmount {
			out = append(out, Transformation{
				Column:         name,
				Transformation: TransformRoundNumeric,
				Reason:         "Amount field should be standardized to 2 decimal places",
				Priority:       PriorityMedium,
			})
		}
	}
	return out
}

// identifyQualityIssues promotes column findings that endanger
// reconciliation into dataset-level issues.
func identifyQualityIssues(order []string, profiles map[string]*ColumnProfile) []QualityIssue {
	var out []QualityIssue
	for _, name := range orderedProfiled(order, profiles) {
		cp := profiles[name]

		if cp.NullPercentage > 50 {
			out = append(out, QualityIssue{
				Severity:       SeverityHigh,
				Column:         name,
				Issue:          fmt.Sprintf("High null percentage: %.1f%%", cp.NullPercentage),
				Impact:         "May cause many unmatched records",
				Recommendation: "Investigate source data quality or exclude column from comparison",
			})
		}
		if cp.InferredType == TypeID && cp.HasIssue(IssueDuplicateValues) {
			out = append(out, QualityIssue{
				Severity:       SeverityCritical,
				Column:         name,
				Issue:          "Duplicate values in ID column",
				Impact:         "Cannot use as unique key",
				Recommendation: "Investigate duplicates or use composite key",
			})
		}
	}
	return out
}

// orderedProfiled returns the dataset's column order restricted to columns
// that profiled successfully, keeping output deterministic.
func orderedProfiled(order []string, profiles map[string]*ColumnProfile) []string {
	out := make([]string, 0, len(profiles))
	for _, name := range order {
		if _, ok := profiles[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
