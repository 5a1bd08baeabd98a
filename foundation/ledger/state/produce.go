package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/canonical"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
)

// ErrNoMinerAddress is returned when block production is requested and the
// node has no beneficiary configured to credit.
var ErrNoMinerAddress = errors.New("miner address is not configured")

// =============================================================================

// nextBlock describes what the next block must be built on.
type nextBlock struct {
	height        uint64
	prevBlockHash string
	timeStamp     uint64
	difficulty    int
}

// ProduceBlocks mines the specified number of blocks, appending each one to
// the chain and consuming the selected transactions from the mempool. The
// operation can be cancelled through the context between nonce attempts.
func (s *State) ProduceBlocks(ctx context.Context, count int) error {
	if s.minerAddress == "" {
		return ErrNoMinerAddress
	}

	for i := 0; i < count; i++ {
		s.evHandler("state: produceBlocks: PRODUCING: block %d of %d", i+1, count)

		if err := s.produceBlock(ctx); err != nil {
			return fmt.Errorf("producing block %d of %d: %w", i+1, count, err)
		}
	}

	return nil
}

// =============================================================================

// produceBlock mines a single block on top of the current latest block.
func (s *State) produceBlock(ctx context.Context) error {
	basis := s.nextBlockBasis()

	s.evHandler("state: produceBlock: PRODUCING: height[%d] difficulty[%d]", basis.height, basis.difficulty)

	// Pick the best transactions for this block. The pool keeps the entries
	// until the block is in the chain, so a cancelled attempt loses nothing.
	entries := s.mempool.PickBest(basis.timeStamp, s.genesis.TransPerBlock)
	txs := make([]database.Tx, len(entries))
	for i, entry := range entries {
		txs[i] = entry.Tx
	}

	s.evHandler("state: produceBlock: PRODUCING: selected %d of %d pending transactions", len(entries), s.mempool.Count())

	// Attempt to create a new block by solving the POW puzzle.
	// This can be cancelled.
	block, err := database.POW(ctx, database.POWArgs{
		BeneficiaryID: s.minerAddress,
		Difficulty:    basis.difficulty,
		PrevBlockHash: basis.prevBlockHash,
		Height:        basis.height,
		TimeStamp:     basis.timeStamp,
		Trans:         txs,
		EvHandler:     s.evHandler,
	})
	if err != nil {
		return err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.evHandler("state: produceBlock: PRODUCING: solved: block[%s] nonce[%d]", block.Header.Hash, block.Header.Nonce)

	s.mu.Lock()
	s.chain = append(s.chain, block)
	s.mu.Unlock()

	// The mined transactions leave the pool by identity, so an identical
	// submission that arrived while mining stays pending.
	for _, entry := range entries {
		s.mempool.Delete(entry.ID)
	}

	s.evHandler("state: produceBlock: PRODUCING: chain[%d blocks] mempool[%d pending]", s.BlockCount(), s.mempool.Count())

	return nil
}

// nextBlockBasis captures the parameters the next block must be mined with.
// An empty chain yields the genesis block parameters.
func (s *State) nextBlockBasis() nextBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chain) == 0 {
		return nextBlock{
			height:        0,
			prevBlockHash: canonical.ZeroHash,
			timeStamp:     s.genesis.TimeStamp,
			difficulty:    s.genesis.Difficulty(0),
		}
	}

	latest := s.chain[len(s.chain)-1].Header

	return nextBlock{
		height:        latest.Height + 1,
		prevBlockHash: latest.Hash,
		timeStamp:     latest.TimeStamp + s.genesis.BlockInterval,
		difficulty:    s.genesis.Difficulty(latest.Height + 1),
	}
}
