package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"reconciler/core/config"
	"reconciler/core/logger"
	"reconciler/core/profile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the profile command
	detailedProfile bool
	profileJSON     bool
)

// profileCmd analyzes a single dataset and reports column types, key
// candidates, and quality issues.
var profileCmd = &cobra.Command{
	Use:   "profile SOURCE",
	Short: "Profile a dataset and report quality findings",
	Long: `Profile a dataset: infer column types, find candidate key columns, and
detect data quality issues.

Examples:
  # Summary report
  reconciler profile bank.csv

  # Per-column details
  reconciler profile bank.csv --detailed

  # Full profile as JSON (for tooling)
  reconciler profile bank.csv --json`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().BoolVar(&detailedProfile, "detailed", false, "Log per-column details")
	profileCmd.Flags().BoolVar(&profileJSON, "json", false, "Print the full profile as JSON to stdout")

	RootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	ds, name, err := loadSource(ctx, cfg, l, args[0])
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	profiler := profile.NewDatasetProfiler(cfg.Profiler, l)
	dp, err := profiler.Profile(ds, name)
	if err != nil {
		return fmt.Errorf("failed to profile dataset: %w", err)
	}

	if profileJSON {
		raw, err := json.MarshalIndent(dp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		fmt.Println(string(raw))
		return nil
	}

	printProfileReport(l, dp, detailedProfile)
	return nil
}

// printProfileReport prints a formatted profile report using logger.
func printProfileReport(l *zap.Logger, dp *profile.DatasetProfile, detailed bool) {
	l.Info("Dataset profile",
		zap.String("dataset", dp.Name),
		zap.Int("rows", dp.RowCount),
		zap.Int("columns", dp.ColumnCount),
		zap.Float64("overall_quality_score", dp.OverallQualityScore),
	)

	for _, candidate := range dp.CandidateKeyColumns {
		l.Info("Candidate key", zap.Strings("columns", candidate))
	}
	for _, tr := range dp.RecommendedTransformations {
		l.Info("Recommended transformation",
			zap.String("column", tr.Column),
			zap.String("transformation", tr.Transformation),
			zap.String("priority", string(tr.Priority)),
		)
	}
	for _, issue := range dp.DataQualityIssues {
		l.Warn("Data quality issue",
			zap.String("column", issue.Column),
			zap.String("severity", string(issue.Severity)),
			zap.String("issue", issue.Issue),
			zap.String("recommendation", issue.Recommendation),
		)
	}

	if !detailed {
		return
	}
	names := make([]string, 0, len(dp.ColumnProfiles))
	for name := range dp.ColumnProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cp := dp.ColumnProfiles[name]
		l.Info("Column",
			zap.String("name", cp.Name),
			zap.String("storage_type", cp.StorageType),
			zap.String("inferred_type", string(cp.InferredType)),
			zap.Float64("null_pct", cp.NullPercentage),
			zap.Float64("unique_pct", cp.UniquePercentage),
			zap.Bool("key_candidate", cp.RecommendedForKey),
			zap.Float64("quality_score", cp.QualityScore),
		)
	}
}
