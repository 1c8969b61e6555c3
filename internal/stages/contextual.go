package stages

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

var (
	gstinPattern     = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z][Z][0-9A-Z]$`)
	docNumberPattern = regexp.MustCompile(`^[A-Z]{1,6}[-/ ]?[0-9]{2,6}([-/ ][0-9]{1,6})?$`)
)

// ContextualLogic scores compliance and business-context signals that none
// of the earlier stages look at: tax identifiers, document-number hygiene,
// and coarse geographic hints.
type ContextualLogic struct{}

// ID returns the stage identifier.
func (ContextualLogic) ID() model.StageID { return model.StageContextualLogic }

// Evaluate combines compliance and relationship heuristics.
func (s ContextualLogic) Evaluate(txn model.Transaction, cand model.Candidate) model.StageResult {
	desc := normalizeUpper(txn.Description)
	taxID := strings.ToUpper(strings.TrimSpace(cand.TaxID))
	doc := normalizeUpper(cand.DocumentNumber)

	var score float64
	var factors []string
	details := map[string]float64{}

	if taxID != "" {
		score += 0.30
		factors = append(factors, "tax_id_present")
		if gstinPattern.MatchString(taxID) {
			score += 0.10
			factors = append(factors, "tax_id_well_formed")
		}
	}

	if doc != "" && docNumberPattern.MatchString(doc) {
		score += 0.30
		factors = append(factors, "document_number_well_formed")
	}

	// Direct tax-compliance evidence: the counterparty's tax identifier
	// quoted in the bank narration.
	if len(taxID) >= 10 && strings.Contains(stripSeparators(desc), taxID) {
		score += 0.20
		factors = append(factors, "tax_id_in_description")
	}

	// Geographic context from the GSTIN state code.
	if stateCode(taxID) > 0 {
		score += 0.05
		factors = append(factors, "state_code_known")
	}

	// An established business relationship shows as the party's lead token
	// in the narration even when stage 4 could not match the full name.
	if lead := leadToken(cand.PartyName); lead != "" && strings.Contains(desc, lead) {
		score += 0.05
		factors = append(factors, "business_relationship")
	}

	if len(factors) == 0 {
		factors = append(factors, "no_contextual_signal")
	}

	return result(s.ID(), score, factors, details)
}

// stateCode extracts the two-digit GST state code, or 0 when absent/invalid.
func stateCode(taxID string) int {
	if len(taxID) < 2 {
		return 0
	}
	code, err := strconv.Atoi(taxID[:2])
	if err != nil || code < 1 || code > 38 {
		return 0
	}
	return code
}

func leadToken(name string) string {
	for _, tok := range tokenize(name) {
		if _, skip := legalSuffixes[tok]; skip {
			continue
		}
		if len(tok) >= 4 {
			return strings.ToUpper(tok)
		}
	}
	return ""
}
