// Package mempool maintains the pool of transactions waiting to be mined.
package mempool

import (
	"sync"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/mempool/selector"
	"github.com/google/uuid"
)

// Entry represents a transaction in the pool along with the identity it was
// assigned on arrival. Two submissions with identical content are still two
// distinct entries.
type Entry struct {
	ID uuid.UUID   `json:"id"`
	Tx database.Tx `json:"tx"`
}

// Mempool represents the pool of pending transactions in arrival order.
type Mempool struct {
	mu       sync.RWMutex
	pool     []Entry
	selectFn selector.Func
}

// New constructs a new mempool using the default sort strategy.
func New() (*Mempool, error) {
	return NewWithStrategy(selector.StrategyFee)
}

// NewWithStrategy constructs a new mempool with the specified sort strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the pool and returns the entry that now
// identifies it.
func (mp *Mempool) Add(tx database.Tx) Entry {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	entry := Entry{
		ID: uuid.New(),
		Tx: tx,
	}
	mp.pool = append(mp.pool, entry)

	return entry
}

// Delete removes the transaction with the specified identity from the pool.
// Unknown identities are ignored.
func (mp *Mempool) Delete(id uuid.UUID) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for i, entry := range mp.pool {
		if entry.ID == id {
			mp.pool = append(mp.pool[:i], mp.pool[i+1:]...)
			return
		}
	}
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Entries returns a copy of the pool in arrival order.
func (mp *Mempool) Entries() []Entry {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	entries := make([]Entry, len(mp.pool))
	copy(entries, mp.pool)

	return entries
}

// PickBest uses the configured sort strategy to return the next set of
// transactions for a block being mined at nextBlockTime.
func (mp *Mempool) PickBest(nextBlockTime uint64, howMany int) []Entry {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	txs := make([]database.Tx, len(mp.pool))
	for i, entry := range mp.pool {
		txs[i] = entry.Tx
	}

	picks := mp.selectFn(txs, nextBlockTime, howMany)

	entries := make([]Entry, len(picks))
	for i, idx := range picks {
		entries[i] = mp.pool[idx]
	}

	return entries
}
