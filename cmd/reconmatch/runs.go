package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/SKY-Fai/reconmatch/internal/service"
	"github.com/SKY-Fai/reconmatch/internal/storage"

	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List persisted reconciliation runs, or show one run in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listRuns,
	}

	cmd.Flags().String("db", "", "SQLite database with persisted runs (required)")
	cmd.Flags().Int("limit", 20, "maximum number of runs to show")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// openStorage opens the audit database and brings its schema up to date.
func openStorage(ctx context.Context, dbPath string) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")

	store, err := openStorage(cmd.Context(), dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(args) == 1 {
		return showRun(cmd.Context(), store, args[0])
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %8s  %8s  %7s\n", "RUN", "STARTED", "MATCHED", "TOTAL", "PCT")
	for _, run := range runs {
		fmt.Printf("%-36s  %-20s  %8d  %8d  %6.1f%%\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Report.MatchedCount,
			run.Report.TotalTransactions,
			run.Report.MatchedPercent)
	}
	return nil
}

func showRun(ctx context.Context, store service.Storage, id string) error {
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s\n", run.ID)
	fmt.Printf("Started:    %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Completed:  %s\n", run.CompletedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Matched:    %d/%d (%.1f%%)  amount %s\n",
		run.Report.MatchedCount, run.Report.TotalTransactions,
		run.Report.MatchedPercent, run.Report.MatchedAmount.StringFixed(2))
	fmt.Printf("Unmatched:  %d  amount %s\n",
		run.Report.UnmatchedCount, run.Report.UnmatchedAmount.StringFixed(2))

	outcomes, err := store.GetOutcomes(ctx, id)
	if err != nil {
		return err
	}
	if len(outcomes) > 0 {
		fmt.Printf("\n%-12s  %-12s  %6s  %-18s  %s\n", "TRANSACTION", "CANDIDATE", "SCORE", "CATEGORY", "MATCHED")
		for _, o := range outcomes {
			fmt.Printf("%-12s  %-12s  %6.3f  %-18s  %s\n",
				o.TransactionID, valueOrDash(o.CandidateID), o.Score,
				valueOrDash(string(o.Category)), yesNo(o.Matched))
		}
	}

	mappings, err := store.GetManualMappings(ctx, id)
	if err != nil {
		return err
	}
	if len(mappings) > 0 {
		fmt.Printf("\nManual mapping queue (%d):\n", len(mappings))
		for _, mm := range mappings {
			line := fmt.Sprintf("  %-12s -> %s %s", mm.TransactionID, mm.SuggestedAccount, mm.AccountName)
			if len(mm.Reasons) > 0 {
				line += fmt.Sprintf("  [%s]", strings.Join(mm.Reasons, ", "))
			}
			fmt.Println(line)
		}
	}
	return nil
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
