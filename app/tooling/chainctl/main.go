// This program works the ledger archives directly, producing blocks and
// merkle proofs without a running node.
package main

import "github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/app/tooling/chainctl/cmd"

func main() {
	cmd.Execute()
}
