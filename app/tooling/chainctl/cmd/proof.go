package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/storage/archive"
	"github.com/spf13/cobra"
)

var proofOutput string

// proofCmd represents the generate-proof command.
var proofCmd = &cobra.Command{
	Use:   "generate-proof <height> <tx-hash>",
	Short: "Generate a merkle inclusion proof for one transaction",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		height, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			log.Fatalf("parsing height: %v", err)
		}

		st, err := loadState("", nil)
		if err != nil {
			log.Fatal(err)
		}

		proof, err := st.GenerateProof(height, args[1])
		if err != nil {
			log.Fatal(err)
		}

		if err := archive.SaveProof(proofOutput, proof); err != nil {
			log.Fatal(err)
		}

		fmt.Printf("proof for tx %s written to %s\n", proof.TxHash, proofOutput)
	},
}

func init() {
	rootCmd.AddCommand(proofCmd)
	proofCmd.Flags().StringVarP(&proofOutput, "out", "o", "proof.json", "File to write the proof document to.")
}
