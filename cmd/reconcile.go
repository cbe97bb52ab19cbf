package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"reconciler/core/config"
	"reconciler/core/dataset"
	"reconciler/core/logger"
	"reconciler/core/profile"
	"reconciler/core/reconcile"
	"reconciler/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	autoStrategy   bool
	keyColumns     []string
	compareColumns []string
	toleranceFlags []string
	ignoreCase     bool
	trimSpace      bool
	dateFormat     string
	outputDir      string
	outputFormat   string
	uploadResults  bool
	interactive    bool
	yesConfirm     bool
)

// reconcileCmd matches two datasets and reports unmatched records and
// field-level mismatches.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile SOURCE TARGET",
	Short: "Reconcile two datasets record by record",
	Long: `Reconcile two datasets on a composite key and compare the configured columns.

Sources can be local files (csv, tsv, json, xlsx), SQL queries, or object
storage locations.

Examples:
  # Explicit key and compare columns
  reconciler reconcile bank.csv ledger.csv -k txn_id -c amount,status

  # Let the profiler pick the strategy
  reconciler reconcile bank.csv ledger.csv --auto

  # Numeric tolerance and normalization
  reconciler reconcile bank.csv ledger.csv -k txn_id -c amount \
    --tolerance amount=0.01 --trim-space --ignore-case

  # SQL source against an Excel target, uploading results
  reconciler reconcile "db:SELECT * FROM payments" ledger.xlsx --auto --upload`,
	Args: cobra.ExactArgs(2),
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&autoStrategy, "auto", false, "Derive key and compare columns from dataset profiles")
	reconcileCmd.Flags().StringSliceVarP(&keyColumns, "key", "k", nil, "Key column(s) forming the match key")
	reconcileCmd.Flags().StringSliceVarP(&compareColumns, "compare", "c", nil, "Column(s) to compare for matched keys")
	reconcileCmd.Flags().StringSliceVar(&toleranceFlags, "tolerance", nil, "Numeric tolerance per column (col=0.01)")
	reconcileCmd.Flags().BoolVar(&ignoreCase, "ignore-case", false, "Lower-case text before comparison")
	reconcileCmd.Flags().BoolVar(&trimSpace, "trim-space", false, "Trim whitespace before comparison")
	reconcileCmd.Flags().StringVar(&dateFormat, "date-format", "", "Go layout for parsing date strings (e.g. 2006-01-02)")
	reconcileCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for export artifacts")
	reconcileCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Export format: csv, excel, or both")
	reconcileCmd.Flags().BoolVar(&uploadResults, "upload", false, "Upload export artifacts to object storage")
	reconcileCmd.Flags().BoolVar(&interactive, "interactive", false, "Confirm the derived strategy before running")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm prompts (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
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

	source, sourceName, err := loadSource(ctx, cfg, l, args[0])
	if err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}
	target, targetName, err := loadSource(ctx, cfg, l, args[1])
	if err != nil {
		return fmt.Errorf("failed to load target: %w", err)
	}
	if sourceName == targetName {
		sourceName += "_source"
		targetName += "_target"
	}

	runCfg := reconcile.Config{
		SourceName:     sourceName,
		TargetName:     targetName,
		KeyColumns:     keyColumns,
		CompareColumns: compareColumns,
		IgnoreCase:     ignoreCase,
		TrimWhitespace: trimSpace,
		DateFormat:     dateFormat,
	}
	runCfg.Tolerance, err = parseTolerances(toleranceFlags)
	if err != nil {
		return err
	}

	if autoStrategy {
		if err := applyStrategy(cfg, l, &runCfg, source, target); err != nil {
			return err
		}
	} else if len(runCfg.KeyColumns) == 0 {
		return errors.New("no key columns given; pass --key or use --auto")
	}

	if len(runCfg.CompareColumns) == 0 {
		runCfg.CompareColumns = commonNonKeyColumns(source.ColumnNames(), target, runCfg.KeyColumns)
		l.Info("No compare columns given; comparing all common non-key columns",
			zap.Strings("columns", runCfg.CompareColumns))
	}

	if interactive && !confirmStrategy(runCfg) {
		l.Warn("Run cancelled by user. No output was written.")
		return nil
	}

	engine, err := reconcile.NewEngine(runCfg, l)
	if err != nil {
		return err
	}
	result, err := engine.Reconcile(source, target)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	printReconcileReport(l, result)

	dir := outputDir
	if dir == "" {
		dir = cfg.Export.OutputDir
	}
	formatName := outputFormat
	if formatName == "" {
		formatName = cfg.Export.Format
	}
	format, err := reconcile.ParseFormat(formatName)
	if err != nil {
		return err
	}

	exporter := reconcile.NewExporter(runCfg, l)
	if err := exporter.Export(result, dir, format); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	l.Info("Export complete", zap.String("dir", dir), zap.String("format", string(format)))

	if uploadResults {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := exporter.UploadDir(ctx, client, cfg.Export.Bucket, dir, result.RunID); err != nil {
			return fmt.Errorf("failed to upload results: %w", err)
		}
		l.Info("Upload complete",
			zap.String("bucket", cfg.Export.Bucket),
			zap.String("prefix", result.RunID),
		)
	}

	return nil
}

// applyStrategy profiles both datasets and fills unset config fields from the
// advisor's recommendation. Explicit flags win over recommendations.
func applyStrategy(cfg *config.Config, l *zap.Logger, runCfg *reconcile.Config, source, target *dataset.Dataset) error {
	profiler := profile.NewDatasetProfiler(cfg.Profiler, l)

	sp, err := profiler.Profile(source, runCfg.SourceName)
	if err != nil {
		return fmt.Errorf("failed to profile source: %w", err)
	}
	tp, err := profiler.Profile(target, runCfg.TargetName)
	if err != nil {
		return fmt.Errorf("failed to profile target: %w", err)
	}

	strategy := profile.NewAdvisor(l).Suggest(sp, tp)
	if strategy.Status == profile.StrategyError {
		return fmt.Errorf("no strategy available: %s", strategy.Message)
	}

	l.Info("Derived reconciliation strategy",
		zap.Strings("key_columns", strategy.KeyColumns),
		zap.Strings("compare_columns", strategy.CompareColumns),
		zap.Float64("confidence", strategy.Confidence),
	)
	for _, w := range strategy.QualityWarnings {
		l.Warn("Data quality warning",
			zap.String("column", w.Column),
			zap.String("severity", string(w.Severity)),
			zap.String("impact", w.Impact),
		)
	}

	if len(runCfg.KeyColumns) == 0 {
		if len(strategy.KeyColumns) == 0 {
			return errors.New("profiler found no reliable key columns; pass --key explicitly")
		}
		runCfg.KeyColumns = strategy.KeyColumns
	}
	if len(runCfg.CompareColumns) == 0 {
		runCfg.CompareColumns = strategy.CompareColumns
	}
	for col, tol := range strategy.Tolerance {
		if runCfg.Tolerance == nil {
			runCfg.Tolerance = map[string]float64{}
		}
		if _, set := runCfg.Tolerance[col]; !set {
			runCfg.Tolerance[col] = tol
		}
	}
	return nil
}

// commonNonKeyColumns returns source columns, in order, that also exist in
// the target and are not part of the key.
func commonNonKeyColumns(sourceColumns []string, target *dataset.Dataset, keys []string) []string {
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	var out []string
	for _, name := range sourceColumns {
		if !keySet[name] && target.HasColumn(name) {
			out = append(out, name)
		}
	}
	return out
}

func parseTolerances(flags []string) (map[string]float64, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(flags))
	for _, f := range flags {
		col, raw, ok := strings.Cut(f, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid tolerance %q (expected col=0.01)", f)
		}
		tol, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid tolerance value in %q: %w", f, err)
		}
		out[col] = tol
	}
	return out, nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, result *reconcile.Result) {
	s := result.Summary

	l.Info("Reconciliation report",
		zap.Int("total_source_records", s.TotalSourceRecords),
		zap.Int("total_target_records", s.TotalTargetRecords),
		zap.Int("matched_records", s.MatchedRecords),
		zap.Int("unmatched_source", s.UnmatchedSourceRecords),
		zap.Int("unmatched_target", s.UnmatchedTargetRecords),
		zap.Int("mismatched_values", s.MismatchedValues),
		zap.Float64("match_rate", s.MatchRate),
		zap.Float64("accuracy_rate", s.AccuracyRate),
	)
	if s.SourceDuplicateKeys > 0 || s.TargetDuplicateKeys > 0 {
		l.Warn("Duplicate keys were discarded",
			zap.Int("source", s.SourceDuplicateKeys),
			zap.Int("target", s.TargetDuplicateKeys),
		)
	}

	// Show sample of mismatches (max 5 for logger)
	maxShow := 5
	if len(result.Mismatches) < maxShow {
		maxShow = len(result.Mismatches)
	}
	for i := 0; i < maxShow; i++ {
		m := result.Mismatches[i]
		l.Info("Sample mismatch",
			zap.String("key", m.Key),
			zap.String("column", m.Column),
			zap.Any("source_value", m.SourceValue),
			zap.Any("target_value", m.TargetValue),
		)
	}
	if len(result.Mismatches) > maxShow {
		l.Info("Additional mismatches not shown", zap.Int("count", len(result.Mismatches)-maxShow))
	}
}

// confirmStrategy prompts the user to approve the run configuration.
func confirmStrategy(cfg reconcile.Config) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\nKey columns:     %s\n", strings.Join(cfg.KeyColumns, ", "))
	fmt.Printf("Compare columns: %s\n", strings.Join(cfg.CompareColumns, ", "))
	fmt.Print("\nType 'yes' to run the reconciliation: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
