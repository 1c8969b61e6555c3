package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CandidateKind describes which side of the ledger a candidate sits on.
type CandidateKind string

// Candidate kind constants.
const (
	KindSales    CandidateKind = "sales"
	KindPurchase CandidateKind = "purchase"
	KindExpense  CandidateKind = "expense"
	KindOther    CandidateKind = "other"
)

// Candidate is an invoice or ledger entry under evaluation as a potential
// match for a bank transaction. Candidates carry no claim state themselves;
// claims live in the engine's claim table so that exclusive assignment has a
// single arbitration point.
type Candidate struct {
	Date           time.Time
	ID             string
	DocumentNumber string
	PartyName      string
	Description    string
	TaxID          string
	Kind           CandidateKind
	Amount         decimal.Decimal
}
