// Package cmd contains the chainctl commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/genesis"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/state"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/storage/archive"
	"github.com/spf13/cobra"
)

var (
	genesisFile string
	chainFile   string
	mempoolFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chainctl",
	Short: "Work the ledger archives without running the node",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&genesisFile, "genesis", "g", "zblock/genesis.json", "Path to the genesis file.")
	rootCmd.PersistentFlags().StringVarP(&chainFile, "blockchain", "b", "zblock/archive/chain.json.gz", "Path to the chain archive.")
	rootCmd.PersistentFlags().StringVarP(&mempoolFile, "mempool", "p", "zblock/archive/mempool.json.gz", "Path to the mempool archive.")
}

// loadGenesis falls back to the default parameters when no genesis file
// exists at the configured path.
func loadGenesis() (genesis.Genesis, error) {
	gen, err := genesis.Load(genesisFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return genesis.Default(), nil
		}
		return genesis.Genesis{}, err
	}

	return gen, nil
}

// loadState rebuilds the ledger state from the archives on disk. A missing
// archive is treated as empty so the tool works on a fresh directory.
func loadState(minerAddress string, ev state.EventHandler) (*state.State, error) {
	gen, err := loadGenesis()
	if err != nil {
		return nil, fmt.Errorf("loading genesis: %w", err)
	}

	chain, err := archive.LoadChain(chainFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading chain archive: %w", err)
	}

	pool, err := archive.LoadMempool(mempoolFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading mempool archive: %w", err)
	}

	st, err := state.New(state.Config{
		MinerAddress: minerAddress,
		Genesis:      gen,
		Chain:        chain,
		Mempool:      pool,
		EvHandler:    ev,
	})
	if err != nil {
		return nil, err
	}

	if err := st.ValidateChain(); err != nil {
		return nil, fmt.Errorf("validating chain archive: %w", err)
	}

	return st, nil
}
