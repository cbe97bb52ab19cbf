package profile

import (
	"sort"

	"go.uber.org/zap"
)

// Advisor recommends a reconciliation strategy from two dataset profiles.
type Advisor struct {
	logger *zap.Logger
}

// NewAdvisor creates a strategy advisor.
func NewAdvisor(logger *zap.Logger) *Advisor {
	return &Advisor{logger: logger}
}

// maxCompareColumns caps the recommended compare-column list.
const maxCompareColumns = 10

// defaultAmountTolerance is the tolerance assigned to amount columns
// (one cent).
const defaultAmountTolerance = 0.01

// compareTypes are the inferred types worth comparing field-by-field.
var compareTypes = map[SemanticType]bool{
	TypeNumeric:       true,
	TypeNumericAmount: true,
	TypeDate:          true,
	TypeCategory:      true,
}

// Suggest determines key columns, compare columns, tolerances, and a
// confidence score for reconciling the two profiled datasets. A pair with no
// common columns yields a StrategyError result, not an error value, so the
// caller can fall back to manual column mapping.
func (a *Advisor) Suggest(source, target *DatasetProfile) *Strategy {
	a.logger.Info("Analyzing datasets to suggest reconciliation strategy",
		zap.String("source", source.Name),
		zap.String("target", target.Name),
	)

	common := commonColumns(source, target)
	if len(common) == 0 {
		return &Strategy{
			Status:         StrategyError,
			Message:        "No common columns found between datasets",
			Recommendation: "Check column names - may need renaming or mapping",
		}
	}
	commonSet := make(map[string]bool, len(common))
	for _, c := range common {
		commonSet[c] = true
	}

	key := a.selectKey(source, target, common, commonSet)

	keySet := make(map[string]bool, len(key))
	for _, c := range key {
		keySet[c] = true
	}
	var compare []string
	for _, col := range common {
		if keySet[col] {
			continue
		}
		if compareTypes[source.ColumnProfiles[col].InferredType] {
			compare = append(compare, col)
		}
	}
	if len(compare) > maxCompareColumns {
		compare = compare[:maxCompareColumns]
	}

	tolerance := make(map[string]float64)
	for _, col := range compare {
		if source.ColumnProfiles[col].InferredType == TypeNumericAmount {
			tolerance[col] = defaultAmountTolerance
		}
	}

	warnings := append(append([]QualityIssue{}, source.DataQualityIssues...), target.DataQualityIssues...)
	transformations := append(append([]Transformation{}, source.RecommendedTransformations...), target.RecommendedTransformations...)

	strategy := &Strategy{
		Status:             StrategySuccess,
		KeyColumns:         key,
		CompareColumns:     compare,
		Tolerance:          tolerance,
		Transformations:    transformations,
		QualityWarnings:    warnings,
		CommonColumnCount:  len(common),
		SourceQualityScore: source.OverallQualityScore,
		TargetQualityScore: target.OverallQualityScore,
		Confidence:         confidence(key, compare, warnings),
	}

	a.logger.Info("Strategy confidence",
		zap.Float64("confidence", strategy.Confidence),
		zap.Strings("key_columns", key),
		zap.Int("compare_columns", len(compare)),
	)
	return strategy
}

// selectKey walks the source's ranked key candidates and accepts the first
// whose columns are all common and highly unique on the target side too.
// Failing that, it falls back to the first common column unique enough in
// both profiles.
func (a *Advisor) selectKey(source, target *DatasetProfile, common []string, commonSet map[string]bool) []string {
	for _, candidate := range source.CandidateKeyColumns {
		ok := true
		for _, col := range candidate {
			if !commonSet[col] {
				ok = false
				break
			}
			if target.ColumnProfiles[col].UniquePercentage <= 90 {
				ok = false
				break
			}
		}
		if ok {
			return candidate
		}
	}

	for _, col := range common {
		if source.ColumnProfiles[col].UniquePercentage > 80 &&
			target.ColumnProfiles[col].UniquePercentage > 80 {
			a.logger.Warn("No ranked key candidate fits both datasets, falling back to single column",
				zap.String("column", col),
			)
			return []string{col}
		}
	}

	a.logger.Warn("No suitable key columns found in either dataset")
	return nil
}

// confidence scores how trustworthy the recommendation is: no key is the
// dominant penalty, thin compare sets and critical quality issues erode the
// rest.
func confidence(key, compare []string, issues []QualityIssue) float64 {
	score := 100.0
	if len(key) == 0 {
		score -= 50
	}
	if len(compare) < 2 {
		score -= 20
	}
	for _, issue := range issues {
		if issue.Severity == SeverityCritical {
			score -= 15
		}
	}
	return clamp(score, 0, 100)
}

// commonColumns returns the sorted intersection of both profiles' columns.
// Sorting keeps key fallback and compare-column enumeration deterministic.
func commonColumns(source, target *DatasetProfile) []string {
	var common []string
	for name := range source.ColumnProfiles {
		if _, ok := target.ColumnProfiles[name]; ok {
			common = append(common, name)
		}
	}
	sort.Strings(common)
	return common
}
