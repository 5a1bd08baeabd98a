package cmd

import (
	"fmt"
	"log"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/state"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/storage/archive"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	produceCount  int
	minerAddress  string
	verbose       bool
	chainOutput   string
	mempoolOutput string
)

// produceCmd represents the produce-blocks command.
var produceCmd = &cobra.Command{
	Use:   "produce-blocks",
	Short: "Produce blocks from the mempool and update the archives",
	Run: func(cmd *cobra.Command, args []string) {
		if !common.IsHexAddress(minerAddress) {
			log.Fatalf("miner address %q is not a valid hex address", minerAddress)
		}

		var ev state.EventHandler
		if verbose {
			ev = func(v string, args ...any) {
				fmt.Printf(v+"\n", args...)
			}
		}

		st, err := loadState(minerAddress, ev)
		if err != nil {
			log.Fatal(err)
		}

		if err := st.ProduceBlocks(cmd.Context(), produceCount); err != nil {
			log.Fatal(err)
		}

		// The outputs default to overwriting the inputs.
		if chainOutput == "" {
			chainOutput = chainFile
		}
		if mempoolOutput == "" {
			mempoolOutput = mempoolFile
		}

		if err := archive.SaveChain(chainOutput, st.RetrieveChain()); err != nil {
			log.Fatal(err)
		}
		if err := archive.SaveMempool(mempoolOutput, st.MempoolTransactions()); err != nil {
			log.Fatal(err)
		}

		latest := st.RetrieveLatestBlock()
		fmt.Printf("chain height: %d\n", latest.Header.Height)
		fmt.Printf("latest block: %s\n", latest.Header.Hash)
		fmt.Printf("mempool left: %d\n", st.MempoolCount())
	},
}

func init() {
	rootCmd.AddCommand(produceCmd)
	produceCmd.Flags().IntVarP(&produceCount, "count", "n", 1, "Number of blocks to produce.")
	produceCmd.Flags().StringVarP(&minerAddress, "miner", "m", "", "Address credited as the block miner.")
	produceCmd.MarkFlagRequired("miner")
	produceCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Stream production events.")
	produceCmd.Flags().StringVar(&chainOutput, "blockchain-output", "", "Where to write the updated chain, defaults to the input path.")
	produceCmd.Flags().StringVar(&mempoolOutput, "mempool-output", "", "Where to write the updated mempool, defaults to the input path.")
}
