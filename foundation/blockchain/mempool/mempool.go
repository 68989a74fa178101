// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"errors"
	"sync"

	"github.com/sofiacoin/node/foundation/blockchain/database"
)

// Mempool represents the ordered queue of admitted transactions waiting to
// be mined into a block. Transactions are kept in arrival order and keyed by
// their id.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
	ids  map[string]int
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{
		ids: make(map[string]int),
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert appends a transaction to the end of the pool. A transaction with an
// id that is already in the pool is replaced in place.
func (mp *Mempool) Upsert(tx database.Tx) (int, error) {
	if tx.ID == "" {
		return 0, errors.New("transaction id is required")
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	if i, exists := mp.ids[tx.ID]; exists {
		mp.pool[i] = tx
		return len(mp.pool), nil
	}

	mp.ids[tx.ID] = len(mp.pool)
	mp.pool = append(mp.pool, tx)

	return len(mp.pool), nil
}

// DeleteByIDs removes the set of transactions from the pool while keeping
// the arrival order of the rest.
func (mp *Mempool) DeleteByIDs(ids []string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}

	pool := make([]database.Tx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		if !remove[tx.ID] {
			pool = append(pool, tx)
		}
	}

	mp.pool = pool
	mp.ids = make(map[string]int, len(pool))
	for i, tx := range pool {
		mp.ids[tx.ID] = i
	}
}

// Copy returns the transactions in arrival order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)
	return cpy
}
