package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SKY-Fai/reconmatch/internal/common"
	"github.com/SKY-Fai/reconmatch/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRun(id string, startedAt time.Time) *model.RunRecord {
	return &model.RunRecord{
		ID:          id,
		StartedAt:   startedAt,
		CompletedAt: startedAt.Add(2 * time.Second),
		Report: model.ReconciliationReport{
			TotalTransactions: 3,
			MatchedCount:      2,
			UnmatchedCount:    1,
			MatchedAmount:     decimal.RequireFromString("69400.50"),
			UnmatchedAmount:   decimal.RequireFromString("500"),
			MatchedPercent:    66.67,
		},
	}
}

func testResult() *model.ReconciliationResult {
	return &model.ReconciliationResult{
		Outcomes: []model.TransactionOutcome{
			{
				Transaction: model.Transaction{ID: "t1"},
				Best: &model.AggregateResult{
					TransactionID:   "t1",
					CandidateID:     "c1",
					Score:           1.0,
					EarlyTerminated: true,
				},
				Decision: &model.MatchDecision{Category: model.CategoryPerfect, AutoProcess: true},
				Matched:  true,
			},
			{
				Transaction: model.Transaction{ID: "t2"},
				Best: &model.AggregateResult{
					TransactionID: "t2",
					CandidateID:   "c2",
					Score:         0.42,
				},
				Decision: &model.MatchDecision{Category: model.CategoryPoor},
			},
			{
				Transaction: model.Transaction{ID: "t3"},
			},
		},
		ManualMappings: []model.ManualMapping{
			{
				TransactionID:    "t2",
				CandidateID:      "c2",
				SuggestedAccount: "4900",
				AccountName:      "Miscellaneous Income",
				Reasons:          []string{"below_auto_threshold", "weak_reference_match"},
			},
			{
				TransactionID:    "t3",
				SuggestedAccount: "6900",
				AccountName:      "Miscellaneous Expense",
			},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	started := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, testRun("run-1", started), testResult()))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, 3, got.Report.TotalTransactions)
	assert.Equal(t, 2, got.Report.MatchedCount)
	assert.Equal(t, 1, got.Report.UnmatchedCount)
	assert.True(t, got.Report.MatchedAmount.Equal(decimal.RequireFromString("69400.50")))
	assert.True(t, got.Report.UnmatchedAmount.Equal(decimal.RequireFromString("500")))
	assert.InDelta(t, 66.67, got.Report.MatchedPercent, 1e-9)
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveRun_RequiresID(t *testing.T) {
	s := newTestStorage(t)

	err := s.SaveRun(context.Background(), &model.RunRecord{}, nil)
	require.Error(t, err)

	err = s.SaveRun(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, testRun("run-old", base), nil))
	require.NoError(t, s.SaveRun(ctx, testRun("run-new", base.Add(time.Hour)), nil))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)

	limited, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-new", limited[0].ID)
}

func TestGetOutcomes(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	started := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, testRun("run-1", started), testResult()))

	outcomes, err := s.GetOutcomes(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	byTxn := make(map[string]model.OutcomeRecord, len(outcomes))
	for _, o := range outcomes {
		byTxn[o.TransactionID] = o
	}

	matched := byTxn["t1"]
	assert.Equal(t, "c1", matched.CandidateID)
	assert.Equal(t, model.CategoryPerfect, matched.Category)
	assert.True(t, matched.Matched)
	assert.True(t, matched.EarlyTerminated)
	assert.InDelta(t, 1.0, matched.Score, 1e-9)

	poor := byTxn["t2"]
	assert.Equal(t, model.CategoryPoor, poor.Category)
	assert.False(t, poor.Matched)

	// No candidate at all: stored with empty candidate and category.
	none := byTxn["t3"]
	assert.Empty(t, none.CandidateID)
	assert.Empty(t, string(none.Category))
	assert.Zero(t, none.Score)
}

func TestGetManualMappings(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	started := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, testRun("run-1", started), testResult()))

	mappings, err := s.GetManualMappings(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, mappings, 2)

	byTxn := make(map[string]model.ManualMapping, len(mappings))
	for _, mm := range mappings {
		byTxn[mm.TransactionID] = mm
	}

	assert.Equal(t, "4900", byTxn["t2"].SuggestedAccount)
	assert.Equal(t, []string{"below_auto_threshold", "weak_reference_match"}, byTxn["t2"].Reasons)

	assert.Equal(t, "6900", byTxn["t3"].SuggestedAccount)
	assert.Nil(t, byTxn["t3"].Reasons)
}

func TestSaveRun_DuplicateID(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	started := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, testRun("run-1", started), nil))

	err := s.SaveRun(ctx, testRun("run-1", started), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}
