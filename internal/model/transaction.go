package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionDirection indicates which way money moved on the bank side.
type TransactionDirection string

// Transaction direction constants.
const (
	DirectionCredit  TransactionDirection = "credit"
	DirectionDebit   TransactionDirection = "debit"
	DirectionUnknown TransactionDirection = "unknown"
)

// Transaction represents a single normalized bank statement line.
// Transactions are read-only for the duration of a reconciliation run.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string
	Reference   string
	Direction   TransactionDirection
	Amount      decimal.Decimal
	Balance     *decimal.Decimal // running balance when the statement provides one
}

// GenerateHash creates a stable hash for duplicate detection across imports.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.Description,
		t.Reference)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
