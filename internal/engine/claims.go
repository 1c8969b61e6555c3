package engine

import (
	"errors"
	"sync"
)

// ErrAlreadyClaimed is returned when applying a match to a candidate that
// another transaction has already claimed.
var ErrAlreadyClaimed = errors.New("candidate already claimed")

// ClaimTable is the single arbitration point for exclusive candidate
// assignment. Candidates themselves stay immutable; all claim state lives
// here, keyed by candidate ID.
type ClaimTable struct {
	claims map[string]string // candidate ID -> transaction ID
	mu     sync.Mutex
}

// NewClaimTable creates an empty claim table.
func NewClaimTable() *ClaimTable {
	return &ClaimTable{claims: make(map[string]string)}
}

// Claim atomically assigns a candidate to a transaction. It returns false if
// the candidate is already claimed; a claim never reverts within a run.
func (c *ClaimTable) Claim(candidateID, transactionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.claims[candidateID]; taken {
		return false
	}
	c.claims[candidateID] = transactionID
	return true
}

// IsClaimed reports whether the candidate has been claimed.
func (c *ClaimTable) IsClaimed(candidateID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, taken := c.claims[candidateID]
	return taken
}

// Owner returns the transaction that claimed the candidate, if any.
func (c *ClaimTable) Owner(candidateID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	txnID, ok := c.claims[candidateID]
	return txnID, ok
}

// Len returns the number of claimed candidates.
func (c *ClaimTable) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.claims)
}

// Applier claims candidates for accepted matches, whether the acceptance was
// automatic or a reviewer's manual decision.
type Applier struct {
	claims *ClaimTable
}

// NewApplier creates an applier over a claim table.
func NewApplier(claims *ClaimTable) *Applier {
	return &Applier{claims: claims}
}

// Apply claims the candidate for the transaction.
func (a *Applier) Apply(transactionID, candidateID string) error {
	if !a.claims.Claim(candidateID, transactionID) {
		return ErrAlreadyClaimed
	}
	return nil
}
