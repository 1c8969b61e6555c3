package stages

import (
	"regexp"
	"strings"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

var (
	componentSplit = regexp.MustCompile(`[0-9]+|[A-Z]+`)
	trailingDigits = regexp.MustCompile(`[0-9]{2,}$`)
)

// ReferencePattern scores how strongly the candidate's document number shows
// up in the transaction's description and reference fields.
type ReferencePattern struct{}

// ID returns the stage identifier.
func (ReferencePattern) ID() model.StageID { return model.StageReferencePattern }

// Evaluate searches for the candidate document number in the transaction text.
func (s ReferencePattern) Evaluate(txn model.Transaction, cand model.Candidate) model.StageResult {
	doc := normalizeUpper(cand.DocumentNumber)
	if doc == "" {
		return failed(s.ID(), "missing_document_number")
	}
	if len(doc) < 3 {
		return insufficient(s.ID(), "short_document_number")
	}

	search := normalizeUpper(txn.Description + " " + txn.Reference)
	if search == "" {
		return failed(s.ID(), "empty_search_text")
	}

	if strings.Contains(search, doc) {
		return result(s.ID(), 1.0, []string{"exact_document_match"},
			map[string]float64{"match_length": float64(len(doc))})
	}

	strippedDoc := stripSeparators(doc)
	strippedSearch := stripSeparators(search)
	if len(strippedDoc) >= 3 && strings.Contains(strippedSearch, strippedDoc) {
		return result(s.ID(), 0.90, []string{"normalized_document_match"},
			map[string]float64{"match_length": float64(len(strippedDoc))})
	}

	// Partial credit from the document number's numeric and alphabetic parts.
	components := componentSplit.FindAllString(doc, -1)
	matched := 0
	scorable := 0
	longestNumeric := ""
	for _, comp := range components {
		if len(comp) < 2 {
			continue
		}
		scorable++
		if strings.Contains(strippedSearch, comp) {
			matched++
		}
		if comp[0] >= '0' && comp[0] <= '9' && len(comp) > len(longestNumeric) {
			longestNumeric = comp
		}
	}

	var score float64
	var factors []string
	details := map[string]float64{
		"components_total":   float64(scorable),
		"components_matched": float64(matched),
	}

	if scorable > 0 && matched > 0 {
		frac := float64(matched) / float64(scorable)
		score += frac * 0.6
		factors = append(factors, "component_match")
		details["component_fraction"] = frac
	}

	if len(longestNumeric) >= 3 && strings.Contains(strippedSearch, longestNumeric) {
		score += 0.15
		factors = append(factors, "numeric_sequence_match")
	}

	// Secondary check against a dedicated reference field, when both sides
	// carry enough characters to be meaningful.
	ref := stripSeparators(normalizeUpper(txn.Reference))
	if len(ref) >= 4 && len(strippedDoc) >= 4 {
		if strings.Contains(ref, strippedDoc) || strings.Contains(strippedDoc, ref) {
			score += 0.20
			factors = append(factors, "reference_code_match")
		}
	}

	// Invoice numbering usually ends in a sequence; a trailing digit run
	// found in the text is weak but real evidence.
	if tail := trailingDigits.FindString(strippedDoc); tail != "" && strings.Contains(strippedSearch, tail) {
		score += 0.05
		factors = append(factors, "sequential_pattern")
	}

	if len(factors) == 0 {
		factors = append(factors, "no_reference_overlap")
	}

	return result(s.ID(), score, factors, details)
}
