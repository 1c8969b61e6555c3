package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application expects.
const ExpectedSchemaVersion = 1

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS runs (
					id TEXT PRIMARY KEY,
					started_at DATETIME NOT NULL,
					completed_at DATETIME NOT NULL,
					total_transactions INTEGER NOT NULL,
					matched_count INTEGER NOT NULL,
					unmatched_count INTEGER NOT NULL,
					matched_amount TEXT NOT NULL,
					unmatched_amount TEXT NOT NULL,
					matched_percent REAL NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS outcomes (
					run_id TEXT NOT NULL REFERENCES runs(id),
					transaction_id TEXT NOT NULL,
					candidate_id TEXT,
					score REAL NOT NULL,
					category TEXT,
					matched INTEGER NOT NULL DEFAULT 0,
					early_terminated INTEGER NOT NULL DEFAULT 0,
					PRIMARY KEY (run_id, transaction_id)
				)`,
				`CREATE INDEX idx_outcomes_run ON outcomes(run_id)`,

				`CREATE TABLE IF NOT EXISTS manual_mappings (
					run_id TEXT NOT NULL REFERENCES runs(id),
					transaction_id TEXT NOT NULL,
					candidate_id TEXT,
					suggested_account TEXT NOT NULL,
					account_name TEXT,
					reasons TEXT,
					PRIMARY KEY (run_id, transaction_id)
				)`,
				`CREATE INDEX idx_mappings_run ON manual_mappings(run_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute migration query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_versions (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	var current int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		slog.Info("Applying migration", "version", m.Version, "description", m.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_versions (version) VALUES (?)`, m.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
