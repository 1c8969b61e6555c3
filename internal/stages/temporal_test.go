package stages

import (
	"testing"
	"time"

	"github.com/SKY-Fai/reconmatch/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTemporalCorrelation(t *testing.T) {
	tests := []struct {
		name        string
		txnDate     time.Time
		candDate    time.Time
		wantScore   float64
		wantFactors []string
	}{
		{
			name:        "same day",
			txnDate:     day(2024, 3, 15),
			candDate:    day(2024, 3, 15),
			wantScore:   1.0,
			wantFactors: []string{"same_day"},
		},
		{
			name:        "next day payment flow",
			txnDate:     day(2024, 3, 13),
			candDate:    day(2024, 3, 12),
			wantScore:   0.95, // 0.92 band + forward flow
			wantFactors: []string{"next_day", "forward_payment_flow"},
		},
		{
			name:        "friday invoice settles monday",
			txnDate:     day(2024, 3, 18),
			candDate:    day(2024, 3, 15),
			wantScore:   0.78, // 0.70 band + friday/monday + forward flow
			wantFactors: []string{"within_5_days", "friday_monday_settlement", "forward_payment_flow"},
		},
		{
			name:        "weekend adjacent",
			txnDate:     day(2024, 3, 18),
			candDate:    day(2024, 3, 16), // Saturday
			wantScore:   0.91,             // 0.85 band + weekend + forward flow
			wantFactors: []string{"within_2_days", "weekend_adjacent", "forward_payment_flow"},
		},
		{
			name:        "monthly recurring interval",
			txnDate:     day(2024, 3, 31),
			candDate:    day(2024, 3, 1),
			wantScore:   0.27, // 0.25 band + recurring
			wantFactors: []string{"within_30_days", "recurring_interval"},
		},
		{
			name:        "advance payment",
			txnDate:     day(2024, 3, 10),
			candDate:    day(2024, 3, 18),
			wantScore:   0.51, // 0.50 band + advance
			wantFactors: []string{"within_10_days", "advance_payment"},
		},
		{
			name:        "distant dates",
			txnDate:     day(2024, 3, 15),
			candDate:    day(2023, 6, 10),
			wantScore:   0.05,
			wantFactors: []string{"distant_dates"},
		},
	}

	stage := TemporalCorrelation{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := model.Transaction{ID: "t1", Date: tt.txnDate, Amount: decimal.NewFromInt(100)}
			cand := model.Candidate{ID: "c1", Date: tt.candDate, Amount: decimal.NewFromInt(100)}

			result := stage.Evaluate(txn, cand)
			assert.True(t, result.Success)
			assert.InDelta(t, tt.wantScore, result.Score, 0.0001)
			for _, f := range tt.wantFactors {
				assert.Contains(t, result.Factors, f)
			}
		})
	}
}

func TestTemporalCorrelation_MissingDates(t *testing.T) {
	stage := TemporalCorrelation{}

	result := stage.Evaluate(
		model.Transaction{ID: "t1"},
		model.Candidate{ID: "c1", Date: day(2024, 3, 15)})
	assert.False(t, result.Success)
	assert.Equal(t, model.ConfidenceFailed, result.Confidence)
	assert.Contains(t, result.Factors, "missing_transaction_date")

	result = stage.Evaluate(
		model.Transaction{ID: "t1", Date: day(2024, 3, 15)},
		model.Candidate{ID: "c1"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Factors, "missing_candidate_date")
}
