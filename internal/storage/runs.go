package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SKY-Fai/reconmatch/internal/common"
	"github.com/SKY-Fai/reconmatch/internal/model"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SaveRun persists a run record together with its per-transaction outcomes
// and manual mapping queue, atomically.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.RunRecord, result *model.ReconciliationResult) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run record must have an ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, completed_at, total_transactions,
			matched_count, unmatched_count, matched_amount, unmatched_amount, matched_percent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.CompletedAt,
		run.Report.TotalTransactions, run.Report.MatchedCount, run.Report.UnmatchedCount,
		run.Report.MatchedAmount.String(), run.Report.UnmatchedAmount.String(),
		run.Report.MatchedPercent)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("run %s: %w", run.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if result != nil {
		for _, o := range result.Outcomes {
			var candidateID any
			var score float64
			var category any
			var early bool
			if o.Best != nil {
				candidateID = o.Best.CandidateID
				score = o.Best.Score
				early = o.Best.EarlyTerminated
			}
			if o.Decision != nil {
				category = string(o.Decision.Category)
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO outcomes (run_id, transaction_id, candidate_id, score, category, matched, early_terminated)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				run.ID, o.Transaction.ID, candidateID, score, category, o.Matched, early)
			if err != nil {
				return fmt.Errorf("failed to insert outcome: %w", err)
			}
		}

		for _, mm := range result.ManualMappings {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO manual_mappings (run_id, transaction_id, candidate_id, suggested_account, account_name, reasons)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				run.ID, mm.TransactionID, mm.CandidateID, mm.SuggestedAccount,
				mm.AccountName, strings.Join(mm.Reasons, ","))
			if err != nil {
				return fmt.Errorf("failed to insert manual mapping: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// GetRun retrieves a run record by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, completed_at, total_transactions,
			matched_count, unmatched_count, matched_amount, unmatched_amount, matched_percent
		 FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, completed_at, total_transactions,
			matched_count, unmatched_count, matched_amount, unmatched_amount, matched_percent
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetOutcomes returns the flattened outcomes of a run.
func (s *SQLiteStorage) GetOutcomes(ctx context.Context, runID string) ([]model.OutcomeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, transaction_id, COALESCE(candidate_id, ''), score,
			COALESCE(category, ''), matched, early_terminated
		 FROM outcomes WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var outcomes []model.OutcomeRecord
	for rows.Next() {
		var o model.OutcomeRecord
		var category string
		if err := rows.Scan(&o.RunID, &o.TransactionID, &o.CandidateID,
			&o.Score, &category, &o.Matched, &o.EarlyTerminated); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Category = model.MatchCategory(category)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// GetManualMappings returns the manual mapping queue of a run.
func (s *SQLiteStorage) GetManualMappings(ctx context.Context, runID string) ([]model.ManualMapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, COALESCE(candidate_id, ''), suggested_account,
			COALESCE(account_name, ''), COALESCE(reasons, '')
		 FROM manual_mappings WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query manual mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []model.ManualMapping
	for rows.Next() {
		var mm model.ManualMapping
		var reasons string
		if err := rows.Scan(&mm.TransactionID, &mm.CandidateID,
			&mm.SuggestedAccount, &mm.AccountName, &reasons); err != nil {
			return nil, fmt.Errorf("failed to scan manual mapping: %w", err)
		}
		if reasons != "" {
			mm.Reasons = strings.Split(reasons, ",")
		}
		mappings = append(mappings, mm)
	}
	return mappings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.RunRecord, error) {
	var run model.RunRecord
	var matchedAmount, unmatchedAmount string

	err := row.Scan(&run.ID, &run.StartedAt, &run.CompletedAt,
		&run.Report.TotalTransactions, &run.Report.MatchedCount, &run.Report.UnmatchedCount,
		&matchedAmount, &unmatchedAmount, &run.Report.MatchedPercent)
	if err != nil {
		return nil, err
	}

	run.Report.MatchedAmount, err = decimal.NewFromString(matchedAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid matched amount %q: %w", matchedAmount, err)
	}
	run.Report.UnmatchedAmount, err = decimal.NewFromString(unmatchedAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid unmatched amount %q: %w", unmatchedAmount, err)
	}

	return &run, nil
}
