package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/genesis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifficulty(t *testing.T) {
	gen := genesis.Default()

	tests := []struct {
		height uint64
		want   int
	}{
		{height: 0, want: 1},
		{height: 49, want: 1},
		{height: 50, want: 2},
		{height: 99, want: 2},
		{height: 100, want: 3},
		{height: 249, want: 5},
		{height: 250, want: 6},
		{height: 299, want: 6},
		{height: 1000, want: 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, gen.Difficulty(tt.height), "height %d", tt.height)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")

	content := `{
		"timestamp": 1697412600,
		"block_interval": 10,
		"trans_per_block": 100,
		"base_difficulty": 1,
		"difficulty_interval": 50,
		"max_difficulty": 6
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	gen, err := genesis.Load(path)
	require.NoError(t, err)
	assert.Equal(t, genesis.Default(), gen)
}

func TestLoadRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "zero block interval", content: `{"timestamp":1,"block_interval":0,"trans_per_block":100,"base_difficulty":1,"difficulty_interval":50,"max_difficulty":6}`},
		{name: "zero trans per block", content: `{"timestamp":1,"block_interval":10,"trans_per_block":0,"base_difficulty":1,"difficulty_interval":50,"max_difficulty":6}`},
		{name: "zero base difficulty", content: `{"timestamp":1,"block_interval":10,"trans_per_block":100,"base_difficulty":0,"difficulty_interval":50,"max_difficulty":6}`},
		{name: "max below base", content: `{"timestamp":1,"block_interval":10,"trans_per_block":100,"base_difficulty":3,"difficulty_interval":50,"max_difficulty":2}`},
		{name: "zero difficulty interval", content: `{"timestamp":1,"block_interval":10,"trans_per_block":100,"base_difficulty":1,"difficulty_interval":0,"max_difficulty":6}`},
		{name: "not json", content: `difficulty: 6`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "genesis.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := genesis.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := genesis.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
