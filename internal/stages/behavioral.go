package stages

import (
	"math"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

// recurringMarkers indicate a scheduled payment when they appear in both
// descriptions.
var recurringMarkers = []string{
	"emi", "subscription", "rent", "salary", "monthly", "quarterly",
	"annual", "installment", "recurring",
}

// anomalyPenaltyThreshold is the anomaly signal above which the flow score
// is discounted.
const anomalyPenaltyThreshold = 0.5

// BehavioralPatterns scores whether the direction of money movement agrees
// with the kind of candidate document.
type BehavioralPatterns struct{}

// ID returns the stage identifier.
func (BehavioralPatterns) ID() model.StageID { return model.StageBehavioralPatterns }

// Evaluate correlates transaction direction with candidate kind.
func (s BehavioralPatterns) Evaluate(txn model.Transaction, cand model.Candidate) model.StageResult {
	alignment, alignFactor := flowAlignment(txn.Direction, cand.Kind)

	score := alignmentBand(alignment)
	factors := []string{alignFactor}
	details := map[string]float64{
		"flow_alignment": alignment,
		"base_score":     score,
	}

	txnTokens := tokenSet(txn.Description)
	candTokens := tokenSet(cand.Description)
	if sharedKeywords(recurringMarkers, txnTokens, candTokens) > 0 {
		factors = append(factors, "recurring_frequency")
		score += 0.05
	}

	// Anomaly signal: a large relative amount gap combined with a flow
	// mismatch suggests the pair does not belong together behaviorally.
	anomaly := anomalySignal(txn, cand, alignment)
	details["anomaly_signal"] = anomaly
	switch {
	case anomaly > anomalyPenaltyThreshold:
		factors = append(factors, "anomaly_penalty")
		score *= 0.8
	case anomaly < 0.1:
		factors = append(factors, "low_anomaly")
		score += 0.05
	}

	return result(s.ID(), score, factors, details)
}

// flowAlignment scores direction/kind agreement: incoming money should match
// sales documents, outgoing money should match purchases and expenses.
func flowAlignment(dir model.TransactionDirection, kind model.CandidateKind) (float64, string) {
	switch {
	case dir == model.DirectionCredit && kind == model.KindSales:
		return 1.0, "credit_sales_aligned"
	case dir == model.DirectionDebit && (kind == model.KindPurchase || kind == model.KindExpense):
		return 1.0, "debit_purchase_aligned"
	case dir == model.DirectionUnknown || dir == "" || kind == model.KindOther:
		return 0.5, "flow_indeterminate"
	default:
		return 0.2, "flow_mismatch"
	}
}

func alignmentBand(alignment float64) float64 {
	switch {
	case alignment >= 1.0:
		return 0.90
	case alignment >= 0.5:
		return 0.50
	default:
		return 0.20
	}
}

// anomalySignal combines relative amount distance with flow disagreement
// into a [0,1] signal.
func anomalySignal(txn model.Transaction, cand model.Candidate, alignment float64) float64 {
	txAmt := math.Abs(txn.Amount.InexactFloat64())
	cdAmt := math.Abs(cand.Amount.InexactFloat64())
	if cdAmt == 0 {
		return 1
	}

	gap := math.Min(math.Abs(txAmt-cdAmt)/cdAmt, 1)
	misalign := 1 - alignment
	return clamp01(0.6*gap + 0.4*misalign)
}
