package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"
)

// txHashCmd represents the get-tx-hash command.
var txHashCmd = &cobra.Command{
	Use:   "get-tx-hash <height> <index>",
	Short: "Print the hash of one transaction in the chain",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		height, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			log.Fatalf("parsing height: %v", err)
		}

		index, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("parsing index: %v", err)
		}

		st, err := loadState("", nil)
		if err != nil {
			log.Fatal(err)
		}

		hash, err := st.RetrieveTransactionHash(height, index)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(hash)
	},
}

func init() {
	rootCmd.AddCommand(txHashCmd)
}
