// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

// Storage defines the contract for persisting reconciliation runs for audit.
type Storage interface {
	// Run operations
	SaveRun(ctx context.Context, run *model.RunRecord, result *model.ReconciliationResult) error
	GetRun(ctx context.Context, id string) (*model.RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)

	// Outcome operations
	GetOutcomes(ctx context.Context, runID string) ([]model.OutcomeRecord, error)
	GetManualMappings(ctx context.Context, runID string) ([]model.ManualMapping, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
