package stages

import (
	"fmt"
	"math"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

// gstRates are the common GST percentages used for inclusive/exclusive
// amount relationship detection.
var gstRates = []float64{5, 12, 18, 28}

// gstTolerance is the maximum relative error for a GST relationship to count.
const gstTolerance = 0.002

// AmountPrecision scores how closely the transaction amount matches the
// candidate amount, in absolute and percentage terms, with adjustments for
// tax-inclusive relationships and rounding conventions.
type AmountPrecision struct{}

// ID returns the stage identifier.
func (AmountPrecision) ID() model.StageID { return model.StageAmountPrecision }

// Evaluate compares transaction and candidate amounts.
func (s AmountPrecision) Evaluate(txn model.Transaction, cand model.Candidate) model.StageResult {
	txAmt := math.Abs(txn.Amount.InexactFloat64())
	cdAmt := math.Abs(cand.Amount.InexactFloat64())

	if cdAmt == 0 {
		return failed(s.ID(), "zero_candidate_amount")
	}
	if txAmt == 0 {
		return failed(s.ID(), "zero_transaction_amount")
	}

	diff := math.Abs(txAmt - cdAmt)
	pct := diff / cdAmt * 100

	var factors []string
	score, bandFactor := amountBand(diff, pct)
	factors = append(factors, bandFactor)

	details := map[string]float64{
		"amount_diff": diff,
		"pct_diff":    pct,
		"base_score":  score,
	}

	// A clean GST inclusive/exclusive relationship is as strong a signal as
	// a near-exact amount, even though the raw difference is large.
	if rate, inclusive, ok := detectGSTRelationship(txAmt, cdAmt); ok {
		if score < 0.95 {
			score = 0.95
		}
		kind := "exclusive"
		if inclusive {
			kind = "inclusive"
		}
		factors = append(factors, fmt.Sprintf("gst_%s_%.0fpct", kind, rate))
		details["gst_rate"] = rate
		score += 0.03
	}

	// Whole-number deltas usually mean a deliberate rounding, not noise.
	if diff >= 1 && diff == math.Trunc(diff) {
		factors = append(factors, "round_number_delta")
		score += 0.02
	}

	// Size-appropriate tolerance: large amounts reward tight relative
	// precision, small amounts reward tight absolute precision.
	switch {
	case txAmt >= 100000 && pct <= 0.1 && pct > 0:
		factors = append(factors, "large_amount_precision")
		score += 0.03
	case txAmt < 1000 && diff <= 1.0 && diff > 0:
		factors = append(factors, "small_amount_tolerance")
		score += 0.03
	}

	return result(s.ID(), score, factors, details)
}

// amountBand maps absolute and percentage differences to the base score.
func amountBand(diff, pct float64) (float64, string) {
	switch {
	case diff < 0.001:
		return 1.0, "exact_amount"
	case diff < 0.01:
		return 0.98, "near_exact_amount"
	case pct <= 0.01:
		return 0.95, "within_0_01_pct"
	case pct <= 0.1:
		return 0.90, "within_0_1_pct"
	case pct <= 1:
		return 0.80, "within_1_pct"
	case pct <= 5:
		return 0.60, "within_5_pct"
	case pct <= 10:
		return 0.30, "within_10_pct"
	default:
		return 0, "amount_mismatch"
	}
}

// detectGSTRelationship checks whether one amount is the other grossed up by
// a common GST rate. Returns the rate, whether the transaction side is the
// tax-inclusive one, and whether any rate matched.
func detectGSTRelationship(txAmt, cdAmt float64) (rate float64, inclusive bool, ok bool) {
	for _, r := range gstRates {
		factor := 1 + r/100
		// transaction is gross, candidate is net
		if relErr(txAmt, cdAmt*factor) < gstTolerance {
			return r, true, true
		}
		// candidate is gross, transaction is net
		if relErr(cdAmt, txAmt*factor) < gstTolerance {
			return r, false, true
		}
	}
	return 0, false, false
}

func relErr(a, b float64) float64 {
	if b == 0 {
		return math.Inf(1)
	}
	return math.Abs(a-b) / b
}
