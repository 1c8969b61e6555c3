package engine

import (
	"testing"

	"github.com/SKY-Fai/reconmatch/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCategorize_Thresholds(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		wantCat  model.MatchCategory
		wantAuto bool
	}{
		{"top of scale", 1.0, model.CategoryPerfect, true},
		{"perfect boundary", 0.95, model.CategoryPerfect, true},
		{"just below perfect", 0.9499, model.CategoryHigh, true},
		{"high boundary", 0.85, model.CategoryHigh, true},
		{"just below high", 0.8499, model.CategoryGood, false},
		{"good boundary", 0.70, model.CategoryGood, false},
		{"just below good", 0.6999, model.CategoryModerate, false},
		{"moderate boundary", 0.50, model.CategoryModerate, false},
		{"just below moderate", 0.4999, model.CategoryPoor, false},
		{"bottom of scale", 0.0, model.CategoryPoor, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &model.AggregateResult{Score: tt.score}
			dec := Categorize(agg)

			assert.Equal(t, tt.wantCat, dec.Category)
			assert.Equal(t, tt.wantAuto, dec.AutoProcess)
			assert.Same(t, agg, dec.Aggregate)
			if !tt.wantAuto {
				assert.NotEmpty(t, dec.ReviewReasons)
			}
		})
	}
}

func TestCategorize_PartitionsUnitInterval(t *testing.T) {
	// Every score in [0,1] maps to exactly one category.
	for i := 0; i <= 1000; i++ {
		score := float64(i) / 1000
		dec := Categorize(&model.AggregateResult{Score: score})

		count := 0
		for _, cat := range []model.MatchCategory{
			model.CategoryPerfect, model.CategoryHigh, model.CategoryGood,
			model.CategoryModerate, model.CategoryPoor,
		} {
			if dec.Category == cat {
				count++
			}
		}
		assert.Equal(t, 1, count, "score %v", score)
	}
}

func TestCategorize_WeakStageReasons(t *testing.T) {
	agg := &model.AggregateResult{
		Score: 0.55,
		StageResults: []model.StageResult{
			{Stage: model.StageAmountPrecision, Score: 0.9},
			{Stage: model.StageReferencePattern, Score: 0.1},
		},
	}

	dec := Categorize(agg)
	assert.Contains(t, dec.ReviewReasons, "manual_review_required")
	assert.Contains(t, dec.ReviewReasons, "weak_reference_pattern")
	assert.NotContains(t, dec.ReviewReasons, "weak_amount_precision")
}
