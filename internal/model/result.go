// Package model defines the core domain models used throughout the application.
package model

// StageID identifies one scoring stage in the matching pipeline.
type StageID string

// Stage identifiers, in pipeline order.
const (
	StageAmountPrecision     StageID = "amount_precision"
	StageTemporalCorrelation StageID = "temporal_correlation"
	StageReferencePattern    StageID = "reference_pattern"
	StagePartyIdentification StageID = "party_identification"
	StageSemanticAnalysis    StageID = "semantic_analysis"
	StageBehavioralPatterns  StageID = "behavioral_patterns"
	StageContextualLogic     StageID = "contextual_logic"
)

// ConfidenceLabel is the qualitative confidence attached to a stage score.
type ConfidenceLabel string

// Confidence labels.
const (
	ConfidenceVeryHigh ConfidenceLabel = "VERY_HIGH"
	ConfidenceHigh     ConfidenceLabel = "HIGH"
	ConfidenceMedium   ConfidenceLabel = "MEDIUM"
	ConfidenceLow      ConfidenceLabel = "LOW"
	ConfidenceVeryLow  ConfidenceLabel = "VERY_LOW"
	ConfidenceFailed   ConfidenceLabel = "FAILED"
)

// LabelForScore maps a stage score to its confidence label.
func LabelForScore(score float64) ConfidenceLabel {
	switch {
	case score >= 0.90:
		return ConfidenceVeryHigh
	case score >= 0.75:
		return ConfidenceHigh
	case score >= 0.50:
		return ConfidenceMedium
	case score >= 0.25:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// StageResult is the outcome of evaluating one stage for one
// (transaction, candidate) pair. Results are created once and never mutated.
type StageResult struct {
	Details    map[string]float64
	Stage      StageID
	Confidence ConfidenceLabel
	Factors    []string
	Score      float64
	Success    bool
}

// AggregateResult is the weighted combination of stage results for one
// (transaction, candidate) pair.
type AggregateResult struct {
	TransactionID   string
	CandidateID     string
	StageResults    []StageResult
	Score           float64
	EarlyTerminated bool
}

// StageScore returns the score for a given stage, or -1 if the stage did not
// run (early termination stops the pipeline before later stages).
func (a *AggregateResult) StageScore(id StageID) float64 {
	for _, r := range a.StageResults {
		if r.Stage == id {
			return r.Score
		}
	}
	return -1
}
