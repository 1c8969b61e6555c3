package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationReport aggregates counts and amounts across one run.
type ReconciliationReport struct {
	ByCategory        map[MatchCategory]int
	TotalTransactions int
	MatchedCount      int
	UnmatchedCount    int
	MatchedAmount     decimal.Decimal
	UnmatchedAmount   decimal.Decimal
	MatchedPercent    float64
}

// ReconciliationResult is the full output of one reconciliation run.
type ReconciliationResult struct {
	Outcomes       []TransactionOutcome
	ManualMappings []ManualMapping
	Report         ReconciliationReport
}

// RunRecord is the persisted form of a reconciliation run.
type RunRecord struct {
	StartedAt   time.Time
	CompletedAt time.Time
	ID          string
	Report      ReconciliationReport
}

// OutcomeRecord is the persisted, flattened form of a TransactionOutcome.
type OutcomeRecord struct {
	RunID           string
	TransactionID   string
	CandidateID     string
	Category        MatchCategory
	Score           float64
	Matched         bool
	EarlyTerminated bool
}
