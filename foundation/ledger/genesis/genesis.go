// Package genesis maintains access to the chain parameters every node and
// tool operating on the same ledger must agree on.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Genesis represents the fixed parameters the chain launched with.
type Genesis struct {
	TimeStamp          uint64 `json:"timestamp"`           // Unix time stamped into the genesis block.
	BlockInterval      uint64 `json:"block_interval"`      // Seconds between consecutive block timestamps.
	TransPerBlock      int    `json:"trans_per_block"`     // Most transactions one block may carry.
	BaseDifficulty     int    `json:"base_difficulty"`     // Zero prefix required at height zero.
	DifficultyInterval uint64 `json:"difficulty_interval"` // Blocks between difficulty increases.
	MaxDifficulty      int    `json:"max_difficulty"`      // Difficulty never grows past this.
}

// Default returns the parameters of the network this engine shipped with.
func Default() Genesis {
	return Genesis{
		TimeStamp:          1697412600,
		BlockInterval:      10,
		TransPerBlock:      100,
		BaseDifficulty:     1,
		DifficultyInterval: 50,
		MaxDifficulty:      6,
	}
}

// Load opens and consumes a genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.validate(); err != nil {
		return Genesis{}, fmt.Errorf("genesis file %s: %w", path, err)
	}

	return genesis, nil
}

// Difficulty returns the zero prefix length required of a block mined at
// the specified height: one step above the base every DifficultyInterval
// blocks, capped at MaxDifficulty.
func (g Genesis) Difficulty(height uint64) int {
	difficulty := g.BaseDifficulty + int(height/g.DifficultyInterval)
	if difficulty > g.MaxDifficulty {
		return g.MaxDifficulty
	}

	return difficulty
}

// validate rejects parameter sets the engine can't operate under.
func (g Genesis) validate() error {
	switch {
	case g.BlockInterval == 0:
		return errors.New("block interval must be positive")
	case g.TransPerBlock <= 0:
		return errors.New("transactions per block must be positive")
	case g.BaseDifficulty < 1:
		return errors.New("base difficulty must be at least 1")
	case g.MaxDifficulty < g.BaseDifficulty:
		return errors.New("max difficulty can't be below the base difficulty")
	case g.DifficultyInterval == 0:
		return errors.New("difficulty interval must be positive")
	}

	return nil
}
