package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimTable_Exclusivity(t *testing.T) {
	claims := NewClaimTable()

	assert.True(t, claims.Claim("c1", "t1"))
	assert.False(t, claims.Claim("c1", "t2"))

	owner, ok := claims.Owner("c1")
	require.True(t, ok)
	assert.Equal(t, "t1", owner)

	assert.True(t, claims.IsClaimed("c1"))
	assert.False(t, claims.IsClaimed("c2"))
	assert.Equal(t, 1, claims.Len())
}

func TestClaimTable_ConcurrentClaims(t *testing.T) {
	claims := NewClaimTable()

	const contenders = 50
	winners := make(chan string, contenders)

	var wg sync.WaitGroup
	wg.Add(contenders)
	for i := 0; i < contenders; i++ {
		go func(id int) {
			defer wg.Done()
			txnID := fmt.Sprintf("t%d", id)
			if claims.Claim("c1", txnID) {
				winners <- txnID
			}
		}(i)
	}
	wg.Wait()
	close(winners)

	// Exactly one contender wins, and the table records that winner.
	var won []string
	for w := range winners {
		won = append(won, w)
	}
	require.Len(t, won, 1)

	owner, ok := claims.Owner("c1")
	require.True(t, ok)
	assert.Equal(t, won[0], owner)
}

func TestApplier(t *testing.T) {
	claims := NewClaimTable()
	applier := NewApplier(claims)

	require.NoError(t, applier.Apply("t1", "c1"))
	assert.ErrorIs(t, applier.Apply("t2", "c1"), ErrAlreadyClaimed)
}
