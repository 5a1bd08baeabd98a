package state

import (
	"errors"
	"fmt"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/canonical"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
)

// ValidateChain walks the chain from genesis and validates every block
// against its parent. Use this to audit a chain loaded from an archive
// before trusting it.
func (s *State) ValidateChain() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.evHandler("state: validateChain: validating %d blocks", len(s.chain))

	if len(s.chain) == 0 {
		return nil
	}

	first := s.chain[0].Header
	if first.Height != 0 || first.PrevBlockHash != canonical.ZeroHash {
		return errors.New("chain doesn't start at the genesis block")
	}

	var prev *database.Block
	for i := range s.chain {
		if err := s.chain[i].ValidateBlock(prev, s.evHandler); err != nil {
			return fmt.Errorf("block at height %d: %w", s.chain[i].Header.Height, err)
		}
		prev = &s.chain[i]
	}

	return nil
}
