// Package engine implements the core reconciliation engine: weighted stage
// aggregation, match categorization, best-candidate selection, and exclusive
// claim arbitration.
package engine

import (
	"math"

	"github.com/SKY-Fai/reconmatch/internal/model"
	"github.com/SKY-Fai/reconmatch/internal/stages"
)

// stageWeights is the fixed weight table applied to stage scores. The
// weights sum to 1.20; the cumulative score is clamped to [0,1] after
// aggregation rather than normalizing the table.
var stageWeights = map[model.StageID]float64{
	model.StageAmountPrecision:     0.30,
	model.StageTemporalCorrelation: 0.25,
	model.StageReferencePattern:    0.20,
	model.StagePartyIdentification: 0.15,
	model.StageSemanticAnalysis:    0.10,
	model.StageBehavioralPatterns:  0.10,
	model.StageContextualLogic:     0.10,
}

const (
	// earlyTerminationScore is the stage score at which an amount or
	// reference signal is treated as unambiguous on its own.
	earlyTerminationScore = 0.99
	// earlyTerminationBonus is added to the cumulative score when the
	// pipeline short-circuits.
	earlyTerminationBonus = 0.05
)

// Aggregator runs the stage pipeline for a (transaction, candidate) pair and
// combines stage scores into one cumulative confidence value.
type Aggregator struct {
	stages []stages.Stage
}

// NewAggregator creates an aggregator over the standard seven-stage pipeline.
func NewAggregator() *Aggregator {
	return &Aggregator{stages: stages.Pipeline()}
}

// Score runs the stages in order and returns the aggregate result.
//
// If the amount or reference stage alone scores at or above the early
// termination threshold, the pipeline stops there: such a signal identifies
// the pair on its own, so the cumulative score becomes that stage's score
// plus a fixed bonus instead of the partial weighted sum.
func (a *Aggregator) Score(txn model.Transaction, cand model.Candidate) model.AggregateResult {
	agg := model.AggregateResult{
		TransactionID: txn.ID,
		CandidateID:   cand.ID,
		StageResults:  make([]model.StageResult, 0, len(a.stages)),
	}

	var cumulative float64
	for _, st := range a.stages {
		sr := st.Evaluate(txn, cand)
		agg.StageResults = append(agg.StageResults, sr)
		cumulative += sr.Score * stageWeights[st.ID()]

		decisive := st.ID() == model.StageAmountPrecision || st.ID() == model.StageReferencePattern
		if decisive && sr.Score >= earlyTerminationScore {
			cumulative = sr.Score + earlyTerminationBonus
			agg.EarlyTerminated = true
			break
		}
	}

	agg.Score = clamp01(cumulative)
	return agg
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
