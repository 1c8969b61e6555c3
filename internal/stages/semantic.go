package stages

import (
	"strings"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

// domainKeywords are accounting terms whose presence on both sides of a pair
// carries more weight than ordinary vocabulary overlap.
var domainKeywords = []string{
	"invoice", "payment", "bill", "purchase", "sales", "service",
	"supply", "consulting", "subscription", "maintenance", "contract",
}

// purposeKeywords describe the intent of a payment rather than its subject.
var purposeKeywords = []string{
	"advance", "settlement", "refund", "installment", "deposit",
	"reimbursement", "retainer",
}

// SemanticAnalysis scores free-text similarity between the transaction
// description and the candidate description.
type SemanticAnalysis struct{}

// ID returns the stage identifier.
func (SemanticAnalysis) ID() model.StageID { return model.StageSemanticAnalysis }

// Evaluate computes token-set similarity between the two descriptions.
func (s SemanticAnalysis) Evaluate(txn model.Transaction, cand model.Candidate) model.StageResult {
	candDesc := strings.TrimSpace(cand.Description)
	if len(candDesc) < 5 {
		return insufficient(s.ID(), "short_candidate_description")
	}
	txnDesc := strings.TrimSpace(txn.Description)
	if txnDesc == "" {
		return failed(s.ID(), "empty_transaction_description")
	}

	txnTokens := tokenSet(txnDesc)
	candTokens := tokenSet(candDesc)
	similarity := jaccard(txnTokens, candTokens)

	score, bandFactor := semanticBand(similarity)
	factors := []string{bandFactor}
	details := map[string]float64{
		"jaccard":    similarity,
		"base_score": score,
	}

	if hits := sharedKeywords(domainKeywords, txnTokens, candTokens); hits > 0 {
		factors = append(factors, "domain_keyword")
		details["domain_keyword_hits"] = float64(hits)
		score += 0.05
	}

	if hits := sharedKeywords(purposeKeywords, txnTokens, candTokens); hits > 0 {
		factors = append(factors, "purpose_keyword")
		details["purpose_keyword_hits"] = float64(hits)
		score += 0.03
	}

	return result(s.ID(), score, factors, details)
}

func semanticBand(similarity float64) (float64, string) {
	switch {
	case similarity >= 0.90:
		return 0.95, "near_identical_text"
	case similarity >= 0.75:
		return 0.85, "very_similar_text"
	case similarity >= 0.60:
		return 0.70, "similar_text"
	case similarity >= 0.45:
		return 0.50, "partially_similar_text"
	case similarity >= 0.30:
		return 0.30, "weakly_similar_text"
	default:
		return 0.10, "dissimilar_text"
	}
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func sharedKeywords(keywords []string, a, b map[string]struct{}) int {
	hits := 0
	for _, kw := range keywords {
		if _, inA := a[kw]; !inA {
			continue
		}
		if _, inB := b[kw]; inB {
			hits++
		}
	}
	return hits
}
