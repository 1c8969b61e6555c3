package stages

import (
	"testing"
	"time"

	"github.com/SKY-Fai/reconmatch/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBehavioralPatterns_FlowAlignment(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		direction  model.TransactionDirection
		kind       model.CandidateKind
		wantScore  float64
		wantFactor string
	}{
		{
			name:       "credit matches sales invoice",
			direction:  model.DirectionCredit,
			kind:       model.KindSales,
			wantScore:  0.95, // 0.90 base + low anomaly bonus
			wantFactor: "credit_sales_aligned",
		},
		{
			name:       "debit matches purchase invoice",
			direction:  model.DirectionDebit,
			kind:       model.KindPurchase,
			wantScore:  0.95,
			wantFactor: "debit_purchase_aligned",
		},
		{
			name:       "credit against purchase is a mismatch",
			direction:  model.DirectionCredit,
			kind:       model.KindPurchase,
			wantScore:  0.20,
			wantFactor: "flow_mismatch",
		},
		{
			name:       "unknown direction is indeterminate",
			direction:  model.DirectionUnknown,
			kind:       model.KindSales,
			wantScore:  0.50,
			wantFactor: "flow_indeterminate",
		},
	}

	stage := BehavioralPatterns{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := model.Transaction{
				ID: "t1", Date: date, Direction: tt.direction,
				Description: "NEFT PAYMENT", Amount: decimal.NewFromInt(5000),
			}
			cand := model.Candidate{
				ID: "c1", Date: date, Kind: tt.kind,
				Description: "Invoice for goods", Amount: decimal.NewFromInt(5000),
			}

			result := stage.Evaluate(txn, cand)
			assert.True(t, result.Success)
			assert.InDelta(t, tt.wantScore, result.Score, 0.0001)
			assert.Contains(t, result.Factors, tt.wantFactor)
		})
	}
}

func TestBehavioralPatterns_AnomalyPenalty(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	stage := BehavioralPatterns{}

	// Aligned flow but wildly different amounts: score is discounted.
	txn := model.Transaction{
		ID: "t1", Date: date, Direction: model.DirectionCredit,
		Description: "NEFT PAYMENT", Amount: decimal.NewFromInt(500000),
	}
	cand := model.Candidate{
		ID: "c1", Date: date, Kind: model.KindSales,
		Description: "Invoice for goods", Amount: decimal.NewFromInt(5000),
	}

	result := stage.Evaluate(txn, cand)
	assert.Contains(t, result.Factors, "anomaly_penalty")
	assert.InDelta(t, 0.72, result.Score, 0.0001) // 0.90 * 0.8
}

func TestBehavioralPatterns_RecurringMarkers(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	stage := BehavioralPatterns{}

	txn := model.Transaction{
		ID: "t1", Date: date, Direction: model.DirectionDebit,
		Description: "MONTHLY RENT TRANSFER", Amount: decimal.NewFromInt(25000),
	}
	cand := model.Candidate{
		ID: "c1", Date: date, Kind: model.KindExpense,
		Description: "Office rent for March, monthly lease", Amount: decimal.NewFromInt(25000),
	}

	result := stage.Evaluate(txn, cand)
	assert.Contains(t, result.Factors, "recurring_frequency")
	assert.InDelta(t, 1.0, result.Score, 0.0001) // 0.90 + 0.05 + 0.05
}

func TestContextualLogic(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	stage := ContextualLogic{}

	txn := model.Transaction{
		ID: "t1", Date: date,
		Description: "NEFT ACME PAYMENT", Amount: decimal.NewFromInt(5000),
	}
	cand := model.Candidate{
		ID: "c1", Date: date,
		DocumentNumber: "INV-2024-001",
		PartyName:      "Acme Supplies Pvt Ltd",
		TaxID:          "27AAPFU0939F1ZV",
		Description:    "Invoice for goods",
		Amount:         decimal.NewFromInt(5000),
	}

	result := stage.Evaluate(txn, cand)
	assert.True(t, result.Success)
	assert.Contains(t, result.Factors, "tax_id_present")
	assert.Contains(t, result.Factors, "tax_id_well_formed")
	assert.Contains(t, result.Factors, "document_number_well_formed")
	assert.Contains(t, result.Factors, "state_code_known")
	assert.Contains(t, result.Factors, "business_relationship")
	assert.InDelta(t, 0.80, result.Score, 0.0001)
}

func TestContextualLogic_NoSignals(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	stage := ContextualLogic{}

	txn := model.Transaction{ID: "t1", Date: date, Description: "UNKNOWN", Amount: decimal.NewFromInt(100)}
	cand := model.Candidate{ID: "c1", Date: date, Amount: decimal.NewFromInt(100)}

	result := stage.Evaluate(txn, cand)
	assert.True(t, result.Success)
	assert.Zero(t, result.Score)
	assert.Contains(t, result.Factors, "no_contextual_signal")
}
