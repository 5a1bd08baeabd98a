// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/genesis"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/mempool"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/mempool/selector"
)

// EventHandler defines a function that is called when events
// occur in the processing of producing blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background block production.
type Worker interface {
	Shutdown()
	SignalProduceBlocks(count int)
	SignalCancelProduce() (done func())
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	MinerAddress   string
	Genesis        genesis.Genesis
	Chain          []database.Block
	Mempool        []database.Tx
	SelectStrategy string
	EvHandler      EventHandler
}

// State manages the chain and the pool of pending transactions.
type State struct {
	mu           sync.RWMutex
	minerAddress string
	genesis      genesis.Genesis
	chain        []database.Block
	mempool      *mempool.Mempool
	evHandler    EventHandler

	Worker Worker
}

// New constructs a new ledger state for data management. The chain and
// mempool are taken as is. Use ValidateChain to audit a chain that came
// from an untrusted archive.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// Construct a mempool with the specified sort strategy and reload
	// any transactions that were pending on the last shutdown.
	strategy := cfg.SelectStrategy
	if strategy == "" {
		strategy = selector.StrategyFee
	}
	mpool, err := mempool.NewWithStrategy(strategy)
	if err != nil {
		return nil, err
	}
	for _, tx := range cfg.Mempool {
		mpool.Add(tx)
	}

	chain := make([]database.Block, len(cfg.Chain))
	copy(chain, cfg.Chain)

	state := State{
		minerAddress: cfg.MinerAddress,
		genesis:      cfg.Genesis,
		chain:        chain,
		mempool:      mpool,
		evHandler:    ev,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all block producing activity. The worker is nil when the state
	// is driven directly, like the CLI tooling does.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
