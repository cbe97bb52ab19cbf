package profile

// SemanticType is the inferred meaning of a column, beyond its storage type.
type SemanticType string

const (
	TypeID            SemanticType = "id"
	TypeNumeric       SemanticType = "numeric"
	TypeNumericAmount SemanticType = "numeric_amount"
	TypeDate          SemanticType = "date"
	TypeDateString    SemanticType = "date_string"
	TypeBoolean       SemanticType = "boolean"
	TypeCategory      SemanticType = "category"
	TypeText          SemanticType = "text"
	TypeUnknown       SemanticType = "unknown"
)

// IssueKind classifies a detected column quality issue. Downstream logic
// matches on the kind; Message is for humans only.
type IssueKind string

const (
	IssueHighNull          IssueKind = "high_null"
	IssueModerateNull      IssueKind = "moderate_null"
	IssueAllNull           IssueKind = "all_null"
	IssueWhitespace        IssueKind = "whitespace"
	IssueCaseInconsistency IssueKind = "case_inconsistency"
	IssueSpecialChars      IssueKind = "special_characters"
	IssueOutliers          IssueKind = "outliers"
	IssueNegativeAmount    IssueKind = "negative_amount"
	IssueDuplicateValues   IssueKind = "duplicate_values"
)

// Issue is one detected quality problem on a column.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

// ColumnProfile is an immutable snapshot of one column at profiling time.
type ColumnProfile struct {
	Name              string       `json:"name"`
	StorageType       string       `json:"dtype"`
	NullCount         int          `json:"null_count"`
	NullPercentage    float64      `json:"null_percentage"`
	UniqueCount       int          `json:"unique_count"`
	UniquePercentage  float64      `json:"unique_percentage"`
	IsUnique          bool         `json:"is_unique"`
	SampleValues      []any        `json:"sample_values"`
	InferredType      SemanticType `json:"inferred_type"`
	RecommendedForKey bool         `json:"recommended_for_key"`
	QualityScore      float64      `json:"data_quality_score"`
	Issues            []Issue      `json:"issues"`
}

// HasIssue reports whether the profile carries an issue of the given kind.
func (p *ColumnProfile) HasIssue(kind IssueKind) bool {
	for _, issue := range p.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}

// Priority of a recommended transformation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Transformation is a recommended cleanup step for a column.
type Transformation struct {
	Column         string   `json:"column"`
	Transformation string   `json:"transformation"`
	Reason         string   `json:"reason"`
	Priority       Priority `json:"priority"`
}

// Transformation kinds recommended by the dataset profiler.
const (
	TransformParseDate      = "parse_date"
	TransformTrimWhitespace = "trim_whitespace"
	TransformNormalizeCase  = "normalize_case"
	TransformRoundNumeric   = "round_numeric"
)

// Severity of a dataset-level quality issue.
type Severity string

const (
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// QualityIssue is a dataset-level quality finding that reconciliation should
// surface but never fail on.
type QualityIssue struct {
	Severity       Severity `json:"severity"`
	Column         string   `json:"column"`
	Issue          string   `json:"issue"`
	Impact         string   `json:"impact"`
	Recommendation string   `json:"recommendation"`
}

// DatasetProfile aggregates column profiles with key candidates,
// transformation recommendations, and quality findings.
type DatasetProfile struct {
	Name                       string                    `json:"name"`
	RowCount                   int                       `json:"row_count"`
	ColumnCount                int                       `json:"column_count"`
	ColumnProfiles             map[string]*ColumnProfile `json:"column_profiles"`
	CandidateKeyColumns        [][]string                `json:"candidate_key_columns"`
	RecommendedTransformations []Transformation          `json:"recommended_transformations"`
	DataQualityIssues          []QualityIssue            `json:"data_quality_issues"`
	OverallQualityScore        float64                   `json:"overall_quality_score"`
}

// StrategyStatus signals whether the advisor produced a usable strategy.
type StrategyStatus string

const (
	StrategySuccess StrategyStatus = "success"
	StrategyError   StrategyStatus = "error"
)

// Strategy is the advisor's recommended reconciliation setup for a dataset
// pair. A Status of StrategyError is a structured result, not a failure: the
// caller decides how to proceed (e.g. prompt for a manual column mapping).
type Strategy struct {
	Status             StrategyStatus     `json:"status"`
	Message            string             `json:"message,omitempty"`
	Recommendation     string             `json:"recommendation,omitempty"`
	KeyColumns         []string           `json:"recommended_key_columns"`
	CompareColumns     []string           `json:"recommended_compare_columns"`
	Tolerance          map[string]float64 `json:"recommended_tolerance"`
	Transformations    []Transformation   `json:"recommended_transformations"`
	QualityWarnings    []QualityIssue     `json:"data_quality_warnings"`
	CommonColumnCount  int                `json:"common_columns_count"`
	SourceQualityScore float64            `json:"source_quality_score"`
	TargetQualityScore float64            `json:"target_quality_score"`
	Confidence         float64            `json:"confidence"`
}
