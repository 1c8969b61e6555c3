package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/SKY-Fai/reconmatch/internal/common"
	"github.com/SKY-Fai/reconmatch/internal/engine"
	"github.com/SKY-Fai/reconmatch/internal/ingest"
	"github.com/SKY-Fai/reconmatch/internal/model"
	"github.com/SKY-Fai/reconmatch/internal/suggest"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a reconciliation over a transaction and candidate file",
		RunE:  runReconciliation,
	}

	cmd.Flags().String("transactions", "", "transactions CSV file (required unless --ofx is set)")
	cmd.Flags().String("ofx", "", "OFX/QFX statement file (alternative to --transactions)")
	cmd.Flags().String("candidates", "", "candidates CSV file (required)")
	cmd.Flags().String("rules", "", "optional YAML file with extra account-suggestion rules")
	cmd.Flags().String("db", "", "optional SQLite database to persist the run")
	cmd.Flags().Int("workers", 4, "parallel candidate-scoring workers")
	cmd.Flags().Bool("progress", true, "show a progress bar")

	_ = viper.BindPFlag("run.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("run.db", cmd.Flags().Lookup("db"))

	return cmd
}

func runReconciliation(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	txns, err := loadTransactions(cmd)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		return common.ErrNoTransactions
	}

	candidatesPath, _ := cmd.Flags().GetString("candidates")
	if candidatesPath == "" {
		return common.NewUserError("--candidates is required", common.ErrMissingConfig)
	}
	cands, err := loadCandidates(candidatesPath)
	if err != nil {
		return err
	}

	suggester, err := buildSuggester(cmd)
	if err != nil {
		return err
	}

	cfg := engine.DefaultConfig()
	cfg.Workers = viper.GetInt("run.workers")

	if show, _ := cmd.Flags().GetBool("progress"); show && len(txns) > 0 {
		bar := progressbar.NewOptions(len(txns),
			progressbar.OptionSetDescription("Reconciling"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		cfg.OnProgress = func(completed, _ int) {
			_ = bar.Set(completed)
		}
	}

	reconciler := engine.NewWithConfig(suggester, cfg)

	startedAt := time.Now()
	result, err := reconciler.Reconcile(ctx, txns, cands)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}
	completedAt := time.Now()

	if dbPath := viper.GetString("run.db"); dbPath != "" {
		run := &model.RunRecord{
			ID:          uuid.NewString(),
			StartedAt:   startedAt,
			CompletedAt: completedAt,
			Report:      result.Report,
		}
		if err := persistRun(cmd, dbPath, run, result); err != nil {
			// An audit-save failure should not hide the report.
			common.LogError(err, "Failed to persist run", common.Fields{"db": dbPath})
		} else {
			fmt.Printf("Run saved as %s\n", run.ID)
		}
	}

	printReport(result)
	return nil
}

func loadTransactions(cmd *cobra.Command) ([]model.Transaction, error) {
	txnPath, _ := cmd.Flags().GetString("transactions")
	ofxPath, _ := cmd.Flags().GetString("ofx")

	switch {
	case txnPath != "":
		f, err := os.Open(txnPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open transactions file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return ingest.ReadTransactions(f)
	case ofxPath != "":
		f, err := os.Open(ofxPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open OFX file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return ingest.NewOFXReader().Read(f)
	default:
		return nil, common.NewUserError("either --transactions or --ofx is required", common.ErrMissingConfig)
	}
}

func loadCandidates(path string) ([]model.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open candidates file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ingest.ReadCandidates(f)
}

func buildSuggester(cmd *cobra.Command) (*suggest.Suggester, error) {
	rulesPath, _ := cmd.Flags().GetString("rules")
	if rulesPath == "" {
		return suggest.NewSuggester(), nil
	}
	rules, err := suggest.LoadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	return suggest.NewSuggesterWithRules(rules), nil
}

func persistRun(cmd *cobra.Command, dbPath string, run *model.RunRecord, result *model.ReconciliationResult) error {
	store, err := openStorage(cmd.Context(), dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return store.SaveRun(cmd.Context(), run, result)
}

func printReport(result *model.ReconciliationResult) {
	r := result.Report

	fmt.Println()
	fmt.Println("Reconciliation Summary")
	fmt.Println("======================")
	fmt.Printf("Transactions:  %d\n", r.TotalTransactions)
	fmt.Printf("Matched:       %d (%.1f%%)  amount %s\n", r.MatchedCount, r.MatchedPercent, r.MatchedAmount.StringFixed(2))
	fmt.Printf("Unmatched:     %d  amount %s\n", r.UnmatchedCount, r.UnmatchedAmount.StringFixed(2))

	if len(r.ByCategory) > 0 {
		fmt.Println("\nBy confidence tier:")
		categories := make([]string, 0, len(r.ByCategory))
		for cat := range r.ByCategory {
			categories = append(categories, string(cat))
		}
		sort.Strings(categories)
		for _, cat := range categories {
			fmt.Printf("  %-18s %d\n", cat, r.ByCategory[model.MatchCategory(cat)])
		}
	}

	if len(result.ManualMappings) > 0 {
		fmt.Printf("\nManual mapping required (%d):\n", len(result.ManualMappings))
		for _, mm := range result.ManualMappings {
			fmt.Printf("  %-12s -> %s %s\n", mm.TransactionID, mm.SuggestedAccount, mm.AccountName)
		}
	}
}
