package stages

import (
	"strings"

	"github.com/SKY-Fai/reconmatch/internal/model"
)

// legalSuffixes are entity-type tokens stripped before core-name matching.
var legalSuffixes = map[string]struct{}{
	"pvt": {}, "ltd": {}, "llp": {}, "inc": {}, "corp": {}, "co": {},
	"limited": {}, "private": {}, "company": {}, "plc": {}, "llc": {},
	"and": {}, "of": {}, "the": {},
}

// PartyIdentification scores how strongly the candidate's counterparty name
// appears in the transaction description.
type PartyIdentification struct{}

// ID returns the stage identifier.
func (PartyIdentification) ID() model.StageID { return model.StagePartyIdentification }

// Evaluate searches for the counterparty name in the transaction description.
func (s PartyIdentification) Evaluate(txn model.Transaction, cand model.Candidate) model.StageResult {
	name := normalizeUpper(cand.PartyName)
	if len(name) < 3 {
		return insufficient(s.ID(), "missing_party_name")
	}

	desc := normalizeUpper(txn.Description)
	if desc == "" {
		return failed(s.ID(), "empty_description")
	}

	if strings.Contains(desc, name) {
		return result(s.ID(), 1.0, []string{"exact_party_match"},
			map[string]float64{"name_length": float64(len(name))})
	}

	// Strip legal-entity suffixes, keep substantive tokens.
	var core []string
	for _, tok := range tokenize(name) {
		if _, skip := legalSuffixes[tok]; skip {
			continue
		}
		if len(tok) > 3 {
			core = append(core, tok)
		}
	}

	descTokens := tokenSet(desc)
	var score float64
	var factors []string
	details := map[string]float64{}

	if len(core) > 0 {
		found := 0
		for _, tok := range core {
			if _, ok := descTokens[tok]; ok {
				found++
			} else if strings.Contains(stripSeparators(strings.ToLower(desc)), tok) {
				// Banks often run words together in narration text.
				found++
			}
		}
		frac := float64(found) / float64(len(core))
		score = frac * 0.8
		details["core_tokens"] = float64(len(core))
		details["core_tokens_found"] = float64(found)
		if found > 0 {
			factors = append(factors, "core_token_match")
		}

		// A brand or subsidiary usually shares the lead token.
		if found < len(core) && len(core[0]) >= 5 {
			if _, ok := descTokens[core[0]]; ok {
				score += 0.05
				factors = append(factors, "brand_relationship")
			}
		}
	}

	// Business abbreviation: the acronym of the name's initials, with and
	// without the legal suffix (BHEL keeps the L of Limited).
	for _, acr := range acronyms(tokenize(name)) {
		if _, ok := descTokens[acr]; ok {
			score += 0.10
			factors = append(factors, "business_abbreviation")
			break
		}
	}

	// Phonetic similarity on consonant skeletons catches misspelled
	// narrations like RELIENCE for RELIANCE.
	if phoneticOverlap(core, descTokens) {
		score += 0.05
		factors = append(factors, "phonetic_similarity")
	}

	if len(factors) == 0 {
		factors = append(factors, "no_party_overlap")
	}

	return result(s.ID(), score, factors, details)
}

func acronyms(tokens []string) []string {
	var core, full strings.Builder
	for _, tok := range tokens {
		full.WriteByte(tok[0])
		if _, skip := legalSuffixes[tok]; skip {
			continue
		}
		core.WriteByte(tok[0])
	}

	out := make([]string, 0, 2)
	if core.Len() >= 2 {
		out = append(out, core.String())
	}
	if full.Len() >= 2 && full.String() != core.String() {
		out = append(out, full.String())
	}
	return out
}

// phoneticOverlap reports whether any core token shares a consonant skeleton
// with any description token without being an exact match.
func phoneticOverlap(core []string, descTokens map[string]struct{}) bool {
	for _, tok := range core {
		if _, exact := descTokens[tok]; exact {
			continue
		}
		skel := consonantSkeleton(tok)
		if len(skel) < 3 {
			continue
		}
		for dt := range descTokens {
			if len(dt) > 3 && consonantSkeleton(dt) == skel {
				return true
			}
		}
	}
	return false
}

func consonantSkeleton(s string) string {
	var b strings.Builder
	var last rune
	for _, r := range s {
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			continue
		}
		if r != last {
			b.WriteRune(r)
		}
		last = r
	}
	return b.String()
}
