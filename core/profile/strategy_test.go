package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func columnProfileFor(name string, inferred SemanticType, uniquePct float64) *ColumnProfile {
	return &ColumnProfile{
		Name:             name,
		InferredType:     inferred,
		UniquePercentage: uniquePct,
	}
}

func TestAdvisor_NoCommonColumns(t *testing.T) {
	a := NewAdvisor(zap.NewNop())

	source := &DatasetProfile{ColumnProfiles: map[string]*ColumnProfile{
		"a": columnProfileFor("a", TypeID, 100),
	}}
	target := &DatasetProfile{ColumnProfiles: map[string]*ColumnProfile{
		"b": columnProfileFor("b", TypeID, 100),
	}}

	s := a.Suggest(source, target)
	assert.Equal(t, StrategyError, s.Status)
	assert.Contains(t, s.Message, "No common columns")
	assert.NotEmpty(t, s.Recommendation)
}

func TestAdvisor_Suggest(t *testing.T) {
	p := NewDatasetProfiler(Options{}, zap.NewNop())

	source, err := p.Profile(sampleDataset(t, 40), "source")
	require.NoError(t, err)
	target, err := p.Profile(sampleDataset(t, 40), "target")
	require.NoError(t, err)

	a := NewAdvisor(zap.NewNop())
	s := a.Suggest(source, target)

	require.Equal(t, StrategySuccess, s.Status)
	assert.Equal(t, []string{"id"}, s.KeyColumns)

	// amount and status are comparable types; the key and the text-like
	// email column are not compare candidates.
	assert.Contains(t, s.CompareColumns, "amount")
	assert.Contains(t, s.CompareColumns, "status")
	assert.NotContains(t, s.CompareColumns, "id")

	assert.Equal(t, defaultAmountTolerance, s.Tolerance["amount"])
	_, hasStatus := s.Tolerance["status"]
	assert.False(t, hasStatus, "only amounts get a default tolerance")

	assert.Equal(t, 4, s.CommonColumnCount)
	assert.Equal(t, 100.0, s.Confidence)
}

func TestAdvisor_KeyFallback(t *testing.T) {
	// No ranked candidate survives, but one common column is unique enough
	// in both datasets.
	source := &DatasetProfile{
		ColumnProfiles: map[string]*ColumnProfile{
			"ref":    columnProfileFor("ref", TypeText, 85),
			"amount": columnProfileFor("amount", TypeNumericAmount, 40),
		},
		CandidateKeyColumns: [][]string{{"missing_col"}},
	}
	target := &DatasetProfile{
		ColumnProfiles: map[string]*ColumnProfile{
			"ref":    columnProfileFor("ref", TypeText, 88),
			"amount": columnProfileFor("amount", TypeNumericAmount, 45),
		},
	}

	a := NewAdvisor(zap.NewNop())
	s := a.Suggest(source, target)

	require.Equal(t, StrategySuccess, s.Status)
	assert.Equal(t, []string{"ref"}, s.KeyColumns)
}

func TestAdvisor_CandidateRejectedByTargetUniqueness(t *testing.T) {
	// The source candidate exists on both sides but is not unique in the
	// target, so it must be skipped.
	source := &DatasetProfile{
		ColumnProfiles: map[string]*ColumnProfile{
			"id": columnProfileFor("id", TypeID, 100),
		},
		CandidateKeyColumns: [][]string{{"id"}},
	}
	target := &DatasetProfile{
		ColumnProfiles: map[string]*ColumnProfile{
			"id": columnProfileFor("id", TypeID, 60),
		},
	}

	a := NewAdvisor(zap.NewNop())
	s := a.Suggest(source, target)

	require.Equal(t, StrategySuccess, s.Status)
	assert.Empty(t, s.KeyColumns)
}

func TestAdvisor_Confidence(t *testing.T) {
	// No key (-50), a single compare column (-20), one critical issue (-15).
	source := &DatasetProfile{
		ColumnProfiles: map[string]*ColumnProfile{
			"amount": columnProfileFor("amount", TypeNumericAmount, 40),
		},
		DataQualityIssues: []QualityIssue{{Severity: SeverityCritical, Column: "amount"}},
	}
	target := &DatasetProfile{
		ColumnProfiles: map[string]*ColumnProfile{
			"amount": columnProfileFor("amount", TypeNumericAmount, 45),
		},
	}

	a := NewAdvisor(zap.NewNop())
	s := a.Suggest(source, target)

	require.Equal(t, StrategySuccess, s.Status)
	assert.Empty(t, s.KeyColumns)
	assert.Equal(t, []string{"amount"}, s.CompareColumns)
	assert.Equal(t, 15.0, s.Confidence)
	assert.Len(t, s.QualityWarnings, 1)
}

func TestAdvisor_ConfidenceClamp(t *testing.T) {
	var issues []QualityIssue
	for i := 0; i < 10; i++ {
		issues = append(issues, QualityIssue{Severity: SeverityCritical})
	}
	assert.Equal(t, 0.0, confidence(nil, nil, issues))
	assert.Equal(t, 100.0, confidence([]string{"id"}, []string{"a", "b"}, nil))
}
