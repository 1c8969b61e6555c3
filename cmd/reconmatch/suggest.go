package main

import (
	"fmt"
	"os"

	"github.com/SKY-Fai/reconmatch/internal/ingest"

	"github.com/spf13/cobra"
)

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Print fallback account suggestions for a transaction file",
		Long: `Runs only the fallback account suggester over a transaction CSV,
without any candidate matching. Useful for previewing how unmatched
transactions would be posted.`,
		RunE: runSuggest,
	}

	cmd.Flags().String("transactions", "", "transactions CSV file (required)")
	cmd.Flags().String("rules", "", "optional YAML file with extra account-suggestion rules")
	_ = cmd.MarkFlagRequired("transactions")

	return cmd
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("transactions")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open transactions file: %w", err)
	}
	defer func() { _ = f.Close() }()

	txns, err := ingest.ReadTransactions(f)
	if err != nil {
		return err
	}

	suggester, err := buildSuggester(cmd)
	if err != nil {
		return err
	}

	for _, txn := range txns {
		sug := suggester.Suggest(txn)
		marker := " "
		if !sug.Matched {
			marker = "*" // fell through to the miscellaneous account
		}
		fmt.Printf("%s %-12s %-10s %-28s %s\n", marker, txn.ID, sug.Code, sug.Name, txn.Description)
	}
	return nil
}
