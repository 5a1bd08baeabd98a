package state

import (
	"errors"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/genesis"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/mempool"
)

// ErrInvalidHeight is returned when a block is requested at a height the
// chain doesn't reach.
var ErrInvalidHeight = errors.New("block height is out of range")

// ErrInvalidIndex is returned when a transaction is requested at an index
// the block doesn't contain.
var ErrInvalidIndex = errors.New("transaction index is out of range")

// =============================================================================

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy of the current latest block. The zero
// block is returned when the chain is empty.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chain) == 0 {
		return database.Block{}
	}

	return s.chain[len(s.chain)-1]
}

// RetrieveChain returns a copy of the chain from genesis to the latest block.
func (s *State) RetrieveChain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := make([]database.Block, len(s.chain))
	copy(chain, s.chain)

	return chain
}

// RetrieveBlock returns a copy of the block at the specified height.
func (s *State) RetrieveBlock(height uint64) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if height >= uint64(len(s.chain)) {
		return database.Block{}, ErrInvalidHeight
	}

	return s.chain[height], nil
}

// RetrieveTransactionHash returns the hash of the transaction at the
// specified position in the chain.
func (s *State) RetrieveTransactionHash(height uint64, index int) (string, error) {
	block, err := s.RetrieveBlock(height)
	if err != nil {
		return "", err
	}

	if index < 0 || index >= len(block.Transactions) {
		return "", ErrInvalidIndex
	}

	return block.Transactions[index].Hash(), nil
}

// RetrieveMempool returns a copy of the pending transactions in arrival
// order, along with the identities they carry in the pool.
func (s *State) RetrieveMempool() []mempool.Entry {
	return s.mempool.Entries()
}

// MempoolTransactions returns a copy of the pending transactions in arrival
// order without their pool identities. This is the form the mempool archive
// stores.
func (s *State) MempoolTransactions() []database.Tx {
	entries := s.mempool.Entries()

	txs := make([]database.Tx, len(entries))
	for i, entry := range entries {
		txs[i] = entry.Tx
	}

	return txs
}

// BlockCount returns the number of blocks in the chain.
func (s *State) BlockCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chain)
}

// MempoolCount returns the number of pending transactions in the pool.
func (s *State) MempoolCount() int {
	return s.mempool.Count()
}
