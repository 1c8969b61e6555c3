package engine

import (
	"fmt"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

// Category thresholds partition [0,1]: every score maps to exactly one
// category.
const (
	perfectThreshold  = 0.95
	highThreshold     = 0.85
	goodThreshold     = 0.70
	moderateThreshold = 0.50
)

// Categorize maps an aggregate result to a match category and an
// auto-process decision, with reasons for anything routed to review.
func Categorize(agg *model.AggregateResult) model.MatchDecision {
	dec := model.MatchDecision{Aggregate: agg}

	switch c := agg.Score; {
	case c >= perfectThreshold:
		dec.Category = model.CategoryPerfect
		dec.AutoProcess = true
	case c >= highThreshold:
		dec.Category = model.CategoryHigh
		dec.AutoProcess = true
	case c >= goodThreshold:
		dec.Category = model.CategoryGood
		dec.ReviewReasons = append(dec.ReviewReasons, "review_suggested")
	case c >= moderateThreshold:
		dec.Category = model.CategoryModerate
		dec.ReviewReasons = append(dec.ReviewReasons, "manual_review_required")
	default:
		dec.Category = model.CategoryPoor
		dec.ReviewReasons = append(dec.ReviewReasons, "manual_mapping_required")
	}

	if !dec.AutoProcess {
		for _, sr := range agg.StageResults {
			if sr.Score < 0.3 {
				dec.ReviewReasons = append(dec.ReviewReasons, fmt.Sprintf("weak_%s", sr.Stage))
			}
		}
	}

	return dec
}
