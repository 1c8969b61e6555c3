package model

// AccountSuggestion is a proposed default ledger account for an unmatched
// transaction.
type AccountSuggestion struct {
	Code    string
	Name    string
	Rule    string // name of the keyword rule that fired, empty for the fallback
	Matched bool   // false when the generic miscellaneous account was used
}
