// Package suggest proposes fallback ledger accounts for transactions that
// the matching engine could not reconcile automatically. Suggestion is pure
// pattern matching over the transaction description: it never fails, and a
// miss is itself a valid, reported outcome.
package suggest

import (
	"fmt"
	"os"
	"regexp"

	"github.com/SKY-Fai/reconmatch/internal/model"

	"gopkg.in/yaml.v3"
)

// Suggester matches transaction descriptions against an ordered rule table.
type Suggester struct {
	rules    []Rule
	compiled []*regexp.Regexp
}

// NewSuggester creates a suggester over the built-in rule table.
func NewSuggester() *Suggester {
	return NewSuggesterWithRules(DefaultRules())
}

// NewSuggesterWithRules creates a suggester over a custom rule table.
// Rules with invalid patterns are skipped.
func NewSuggesterWithRules(rules []Rule) *Suggester {
	s := &Suggester{}
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			continue
		}
		s.rules = append(s.rules, rule)
		s.compiled = append(s.compiled, re)
	}
	return s
}

// Suggest returns the first matching rule's account, or the generic
// miscellaneous income/expense account chosen by transaction direction.
func (s *Suggester) Suggest(txn model.Transaction) model.AccountSuggestion {
	for i, re := range s.compiled {
		if re.MatchString(txn.Description) {
			return model.AccountSuggestion{
				Code:    s.rules[i].AccountCode,
				Name:    s.rules[i].AccountName,
				Rule:    s.rules[i].Name,
				Matched: true,
			}
		}
	}

	if txn.Direction == model.DirectionCredit {
		return model.AccountSuggestion{Code: MiscIncomeCode, Name: MiscIncomeName}
	}
	return model.AccountSuggestion{Code: MiscExpenseCode, Name: MiscExpenseName}
}

// ruleFile is the on-disk shape of a custom rule overlay.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads extra rules from a YAML file. Loaded rules are evaluated
// before the built-in table, so they can override it.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	for _, rule := range file.Rules {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return nil, fmt.Errorf("invalid pattern in rule %q: %w", rule.Name, err)
		}
	}

	return append(file.Rules, DefaultRules()...), nil
}
