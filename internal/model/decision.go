package model

// MatchCategory buckets an aggregate confidence score.
type MatchCategory string

// Match categories, strongest first.
const (
	CategoryPerfect  MatchCategory = "PERFECT_MATCH"
	CategoryHigh     MatchCategory = "HIGH_CONFIDENCE"
	CategoryGood     MatchCategory = "GOOD_MATCH"
	CategoryModerate MatchCategory = "MODERATE_MATCH"
	CategoryPoor     MatchCategory = "POOR_MATCH"
)

// MatchDecision is the categorized result for a transaction's best candidate.
type MatchDecision struct {
	Category      MatchCategory
	ReviewReasons []string
	Aggregate     *AggregateResult
	AutoProcess   bool
}

// TransactionOutcome records what happened to one transaction in a run.
// Best and Decision are nil when no candidate was available to evaluate.
type TransactionOutcome struct {
	Transaction Transaction
	Best        *AggregateResult
	Decision    *MatchDecision
	Matched     bool
}

// ManualMapping is one entry in the manual-review queue: a transaction that
// could not be auto-processed, with a suggested ledger account and, when a
// best candidate existed, a pointer to it for the reviewer.
type ManualMapping struct {
	TransactionID    string
	CandidateID      string // empty when no candidate was evaluated
	SuggestedAccount string
	AccountName      string
	Reasons          []string
}
