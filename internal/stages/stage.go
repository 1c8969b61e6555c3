// Package stages implements the seven scoring stages of the reconciliation
// matching pipeline. Every stage is a pure function of one transaction and
// one candidate: stages never return errors and never panic on malformed
// input, they report failure through the StageResult itself so the pipeline
// can keep going.
package stages

import (
	"math"
	"regexp"
	"strings"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

// Stage is one independent scoring step in the matching pipeline.
type Stage interface {
	ID() model.StageID
	Evaluate(txn model.Transaction, cand model.Candidate) model.StageResult
}

// Pipeline returns the seven stages in their fixed execution order.
func Pipeline() []Stage {
	return []Stage{
		AmountPrecision{},
		TemporalCorrelation{},
		ReferencePattern{},
		PartyIdentification{},
		SemanticAnalysis{},
		BehavioralPatterns{},
		ContextualLogic{},
	}
}

// result builds a successful StageResult with the score clamped to [0,1].
func result(id model.StageID, score float64, factors []string, details map[string]float64) model.StageResult {
	score = clamp01(score)
	return model.StageResult{
		Stage:      id,
		Score:      score,
		Confidence: model.LabelForScore(score),
		Factors:    factors,
		Details:    details,
		Success:    true,
	}
}

// failed builds a zero-score result for unparsable or missing input.
func failed(id model.StageID, factor string) model.StageResult {
	return model.StageResult{
		Stage:      id,
		Score:      0,
		Confidence: model.ConfidenceFailed,
		Factors:    []string{factor},
		Details:    map[string]float64{},
		Success:    false,
	}
}

// insufficient builds a low-score result when a field is present but too
// short to score meaningfully. Unlike failed, this is a valid outcome.
func insufficient(id model.StageID, factor string) model.StageResult {
	return model.StageResult{
		Stage:      id,
		Score:      0,
		Confidence: model.ConfidenceVeryLow,
		Factors:    []string{"insufficient_data", factor},
		Details:    map[string]float64{},
		Success:    true,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

var tokenSplit = regexp.MustCompile(`[^a-z0-9]+`)

// tokenize lowercases text and splits it into alphanumeric tokens.
func tokenize(text string) []string {
	parts := tokenSplit.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// tokenSet returns the unique tokens of text.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// normalizeUpper uppercases and collapses runs of whitespace.
func normalizeUpper(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// stripSeparators removes everything except letters and digits.
func stripSeparators(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
