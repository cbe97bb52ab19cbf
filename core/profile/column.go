package profile

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"reconciler/core/dataset"
)

// Options tunes the profiling heuristics.
type Options struct {
	// KeyUniqueness is the distinct-value ratio a column needs to be
	// considered a key candidate. Default 0.95.
	KeyUniqueness float64 `mapstructure:"key_uniqueness" default:"0.95"`
	// SampleSize caps the number of non-null sample values kept per column
	// and the number of values used for trial date parsing. Default 100.
	SampleSize int `mapstructure:"sample_size" default:"100"`
}

func (o Options) withDefaults() Options {
	if o.KeyUniqueness <= 0 {
		o.KeyUniqueness = 0.95
	}
	if o.SampleSize <= 0 {
		o.SampleSize = 100
	}
	return o
}

// ColumnProfiler infers semantic types, detects quality issues, and scores
// individual columns.
type ColumnProfiler struct {
	opts Options
}

// NewColumnProfiler creates a column profiler with the given options.
func NewColumnProfiler(opts Options) *ColumnProfiler {
	return &ColumnProfiler{opts: opts.withDefaults()}
}

// Name patterns used by the type-inference rules. Matching is
// case-insensitive substring containment.
var (
	idPatterns     = []string{"id", "_id", "key", "code", "number", "ref", "transaction"}
	datePatterns   = []string{"date", "time", "datetime", "created", "updated", "timestamp"}
	amountPatterns = []string{"amount", "price", "cost", "value", "total", "balance"}
)

// dateLayouts are tried, in order, when probing whether a text column holds
// dates and when normalizing date strings.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

var specialCharRe = regexp.MustCompile(`[^\w\s-]`)

// inferContext carries the precomputed column statistics every inference and
// issue rule works from.
type inferContext struct {
	col       *dataset.Column
	nameLower string
	kind      dataset.Kind
	nonNull   []dataset.Value
	totalRows int
	// uniqueCount is the distinct count over non-null values.
	uniqueCount int
	// distinctWithNull additionally counts null (at most once), used for
	// duplicate accounting.
	distinctWithNull int
	nullCount        int
	nullPct          float64
	sampleSize       int
}

// inferenceRule is one step of the first-match type inference table. A rule
// either claims the column by returning (type, true) or passes.
type inferenceRule struct {
	name  string
	infer func(ic inferContext) (SemanticType, bool)
}

// inferenceRules is the priority-ordered rule table. First match wins.
var inferenceRules = []inferenceRule{
	{
		name: "identifier name",
		infer: func(ic inferContext) (SemanticType, bool) {
			if nameMatchesAny(ic.nameLower, idPatterns) {
				return TypeID, true
			}
			return "", false
		},
	},
	{
		name: "numeric storage",
		infer: func(ic inferContext) (SemanticType, bool) {
			if ic.kind != dataset.KindNumber {
				return "", false
			}
			if ic.col.IntegerValued() && ic.totalRows > 0 &&
				float64(ic.uniqueCount)/float64(ic.totalRows) > 0.9 {
				return TypeID, true
			}
			if nameMatchesAny(ic.nameLower, amountPatterns) {
				return TypeNumericAmount, true
			}
			return TypeNumeric, true
		},
	},
	{
		name: "date storage",
		infer: func(ic inferContext) (SemanticType, bool) {
			if ic.kind == dataset.KindTime {
				return TypeDate, true
			}
			return "", false
		},
	},
	{
		name: "boolean storage",
		infer: func(ic inferContext) (SemanticType, bool) {
			if ic.kind == dataset.KindBool {
				return TypeBoolean, true
			}
			return "", false
		},
	},
	{
		name: "text storage",
		infer: func(ic inferContext) (SemanticType, bool) {
			if ic.kind != dataset.KindText {
				return "", false
			}
			if len(ic.nonNull) == 0 {
				return TypeText, true
			}
			if nameMatchesAny(ic.nameLower, datePatterns) && ic.parsesAsDate() {
				return TypeDateString, true
			}
			ratio := float64(ic.uniqueCount) / float64(len(ic.nonNull))
			switch {
			case ratio < 0.1:
				return TypeCategory, true
			case ratio > 0.9:
				if ic.meanTextLength() < 20 {
					return TypeID, true
				}
				return TypeText, true
			default:
				return TypeText, true
			}
		},
	},
}

// Profile inspects one column and returns its immutable profile.
func (p *ColumnProfiler) Profile(col *dataset.Column, totalRows int) (*ColumnProfile, error) {
	if totalRows == 0 {
		return nil, fmt.Errorf("column %q: cannot profile an empty dataset", col.Name)
	}
	if len(col.Values) != totalRows {
		return nil, fmt.Errorf("column %q: has %d values, dataset has %d rows", col.Name, len(col.Values), totalRows)
	}

	ic := newInferContext(col, totalRows, p.opts.SampleSize)

	inferred := TypeUnknown
	for _, rule := range inferenceRules {
		if t, ok := rule.infer(ic); ok {
			inferred = t
			break
		}
	}

	issues := detectIssues(ic, inferred)
	uniquePct := float64(ic.uniqueCount) / float64(totalRows) * 100
	isUnique := uniquePct >= p.opts.KeyUniqueness*100

	samples := make([]any, 0, minInt(len(ic.nonNull), p.opts.SampleSize))
	for _, v := range ic.nonNull {
		if len(samples) >= p.opts.SampleSize {
			break
		}
		samples = append(samples, v.Interface())
	}

	return &ColumnProfile{
		Name:              col.Name,
		StorageType:       ic.kind.String(),
		NullCount:         ic.nullCount,
		NullPercentage:    ic.nullPct,
		UniqueCount:       ic.uniqueCount,
		UniquePercentage:  uniquePct,
		IsUnique:          isUnique,
		SampleValues:      samples,
		InferredType:      inferred,
		RecommendedForKey: recommendForKey(isUnique, inferred, ic.nullPct, issues),
		QualityScore:      qualityScore(ic.nullPct, inferred, issues),
		Issues:            issues,
	}, nil
}

func newInferContext(col *dataset.Column, totalRows, sampleSize int) inferContext {
	nonNull := col.NonNull()
	nullCount := totalRows - len(nonNull)

	distinct := make(map[valueKey]struct{}, len(nonNull))
	for _, v := range nonNull {
		distinct[keyOf(v)] = struct{}{}
	}
	distinctWithNull := len(distinct)
	if nullCount > 0 {
		distinctWithNull++
	}

	return inferContext{
		col:              col,
		nameLower:        strings.ToLower(col.Name),
		kind:             col.Kind(),
		nonNull:          nonNull,
		totalRows:        totalRows,
		uniqueCount:      len(distinct),
		distinctWithNull: distinctWithNull,
		nullCount:        nullCount,
		nullPct:          float64(nullCount) / float64(totalRows) * 100,
		sampleSize:       sampleSize,
	}
}

// valueKey makes cell values usable as map keys for distinct counting.
type valueKey struct {
	kind dataset.Kind
	repr string
}

func keyOf(v dataset.Value) valueKey {
	return valueKey{kind: v.Kind(), repr: v.String()}
}

func (ic inferContext) parsesAsDate() bool {
	probed := 0
	for _, v := range ic.nonNull {
		if probed >= ic.sampleSize {
			break
		}
		s := strings.TrimSpace(v.Text())
		if s == "" {
			continue
		}
		probed++
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return true
			}
		}
	}
	return false
}

func (ic inferContext) meanTextLength() float64 {
	if len(ic.nonNull) == 0 {
		return 0
	}
	total := 0
	for _, v := range ic.nonNull {
		total += len(v.Text())
	}
	return float64(total) / float64(len(ic.nonNull))
}

// issueCheck is one step of the ordered issue-detection table. Checks are
// independent; each returns the issues it found.
type issueCheck func(ic inferContext, inferred SemanticType) []Issue

var issueChecks = []issueCheck{
	checkTextHygiene,
	checkNumericShape,
	checkIDUniqueness,
}

func detectIssues(ic inferContext, inferred SemanticType) []Issue {
	issues := checkNullRatio(ic, inferred)
	if len(ic.nonNull) == 0 {
		return append(issues, Issue{Kind: IssueAllNull, Message: "Column is entirely null"})
	}
	for _, check := range issueChecks {
		issues = append(issues, check(ic, inferred)...)
	}
	return issues
}

func checkNullRatio(ic inferContext, _ SemanticType) []Issue {
	switch {
	case ic.nullPct > 50:
		return []Issue{{Kind: IssueHighNull, Message: fmt.Sprintf("High null percentage: %.1f%%", ic.nullPct)}}
	case ic.nullPct > 10:
		return []Issue{{Kind: IssueModerateNull, Message: fmt.Sprintf("Moderate null percentage: %.1f%%", ic.nullPct)}}
	default:
		return nil
	}
}

func checkTextHygiene(ic inferContext, _ SemanticType) []Issue {
	if ic.kind != dataset.KindText {
		return nil
	}

	var issues []Issue
	whitespace := 0
	special := 0
	lowered := make(map[string]struct{}, len(ic.nonNull))
	for _, v := range ic.nonNull {
		s := v.Text()
		if strings.TrimSpace(s) != s {
			whitespace++
		}
		if specialCharRe.MatchString(s) {
			special++
		}
		lowered[strings.ToLower(s)] = struct{}{}
	}

	if whitespace > 0 {
		issues = append(issues, Issue{
			Kind:    IssueWhitespace,
			Message: fmt.Sprintf("Whitespace issues in %d values", whitespace),
		})
	}
	if len(lowered) < ic.uniqueCount {
		issues = append(issues, Issue{
			Kind:    IssueCaseInconsistency,
			Message: "Case inconsistency detected",
		})
	}
	if special > 0 {
		issues = append(issues, Issue{
			Kind:    IssueSpecialChars,
			Message: fmt.Sprintf("Special characters in %d values", special),
		})
	}
	return issues
}

func checkNumericShape(ic inferContext, _ SemanticType) []Issue {
	if ic.kind != dataset.KindNumber {
		return nil
	}

	nums := make([]float64, 0, len(ic.nonNull))
	negatives := 0
	for _, v := range ic.nonNull {
		nums = append(nums, v.Number())
		if v.Number() < 0 {
			negatives++
		}
	}
	sort.Float64s(nums)

	var issues []Issue
	q1 := quantile(nums, 0.25)
	q3 := quantile(nums, 0.75)
	iqr := q3 - q1
	outliers := 0
	for _, n := range nums {
		if n < q1-3*iqr || n > q3+3*iqr {
			outliers++
		}
	}
	if outliers > 0 {
		issues = append(issues, Issue{
			Kind:    IssueOutliers,
			Message: fmt.Sprintf("Potential outliers: %d values", outliers),
		})
	}

	if negatives > 0 && (strings.Contains(ic.nameLower, "amount") || strings.Contains(ic.nameLower, "price")) {
		issues = append(issues, Issue{
			Kind:    IssueNegativeAmount,
			Message: fmt.Sprintf("Negative values: %d", negatives),
		})
	}
	return issues
}

func checkIDUniqueness(ic inferContext, inferred SemanticType) []Issue {
	if inferred != TypeID {
		return nil
	}
	dups := ic.totalRows - ic.distinctWithNull
	if dups > 0 {
		return []Issue{{
			Kind:    IssueDuplicateValues,
			Message: fmt.Sprintf("Duplicate values: %d (expected unique)", dups),
		}}
	}
	return nil
}

// qualityScore starts at 100, deducts up to 50 points for nulls and 5 per
// issue, and grants a flat bonus to clean id/numeric/date columns.
func qualityScore(nullPct float64, inferred SemanticType, issues []Issue) float64 {
	score := 100.0
	score -= math.Min(nullPct, 50)
	score -= float64(len(issues)) * 5
	switch inferred {
	case TypeID, TypeNumeric, TypeDate:
		score += 10
	}
	return clamp(score, 0, 100)
}

func recommendForKey(isUnique bool, inferred SemanticType, nullPct float64, issues []Issue) bool {
	if !isUnique {
		return false
	}
	if nullPct > 5 {
		return false
	}
	if inferred == TypeID {
		return true
	}
	if inferred == TypeText && len(issues) > 0 {
		return false
	}
	for _, issue := range issues {
		if issue.Kind == IssueDuplicateValues {
			return false
		}
	}
	return true
}

func nameMatchesAny(nameLower string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(nameLower, p) {
			return true
		}
	}
	return false
}

// quantile computes the q-th quantile of sorted values using linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
