package stages

import (
	"testing"
	"time"

	"github.com/SKY-Fai/reconmatch/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func refTxn(description, reference string) model.Transaction {
	return model.Transaction{
		ID:          "t1",
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: description,
		Reference:   reference,
		Amount:      decimal.NewFromInt(1000),
	}
}

func refCand(documentNumber string) model.Candidate {
	return model.Candidate{
		ID:             "c1",
		Date:           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		DocumentNumber: documentNumber,
		Amount:         decimal.NewFromInt(1000),
	}
}

func TestReferencePattern(t *testing.T) {
	tests := []struct {
		name        string
		description string
		reference   string
		document    string
		wantScore   float64
		wantFactor  string
	}{
		{
			name:        "exact document match in description",
			description: "NEFT PAYMENT INV-2024-001 ACME",
			document:    "INV-2024-001",
			wantScore:   1.0,
			wantFactor:  "exact_document_match",
		},
		{
			name:        "exact document match in reference field",
			description: "NEFT PAYMENT RECEIVED",
			reference:   "INV-2024-001",
			document:    "INV-2024-001",
			wantScore:   1.0,
			wantFactor:  "exact_document_match",
		},
		{
			name:        "separator stripped match",
			description: "PAYMENT INV2024001 CLEARED",
			document:    "INV-2024-001",
			wantScore:   0.90,
			wantFactor:  "normalized_document_match",
		},
		{
			name:        "partial component match",
			description: "PAYMENT 2024 REF",
			document:    "INV-2024-001",
			wantScore:   0.35, // 1/3 components * 0.6 + numeric sequence
			wantFactor:  "component_match",
		},
		{
			name:        "no overlap at all",
			description: "UNKNOWN DEPOSIT",
			document:    "INV-2024-001",
			wantScore:   0,
			wantFactor:  "no_reference_overlap",
		},
	}

	stage := ReferencePattern{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stage.Evaluate(refTxn(tt.description, tt.reference), refCand(tt.document))
			assert.True(t, result.Success)
			assert.InDelta(t, tt.wantScore, result.Score, 0.0001)
			assert.Contains(t, result.Factors, tt.wantFactor)
		})
	}
}

func TestReferencePattern_SecondaryReferenceCheck(t *testing.T) {
	// The dedicated reference field carries the numeric tail of the document
	// number even though the narration text does not.
	stage := ReferencePattern{}
	result := stage.Evaluate(refTxn("PAYMENT RECEIVED", "2024001"), refCand("INV-2024-001"))

	assert.Contains(t, result.Factors, "reference_code_match")
	assert.InDelta(t, 0.80, result.Score, 0.0001)
}

func TestReferencePattern_DegenerateInput(t *testing.T) {
	stage := ReferencePattern{}

	result := stage.Evaluate(refTxn("PAYMENT", ""), refCand(""))
	assert.False(t, result.Success)
	assert.Equal(t, model.ConfidenceFailed, result.Confidence)
	assert.Contains(t, result.Factors, "missing_document_number")

	result = stage.Evaluate(refTxn("PAYMENT", ""), refCand("AB"))
	assert.True(t, result.Success)
	assert.Zero(t, result.Score)
	assert.Contains(t, result.Factors, "insufficient_data")

	result = stage.Evaluate(refTxn("", ""), refCand("INV-001"))
	assert.False(t, result.Success)
	assert.Contains(t, result.Factors, "empty_search_text")
}
