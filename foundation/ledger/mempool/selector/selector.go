// Package selector provides different transaction selecting algorithms.
package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
)

// List of select strategies.
const (
	StrategyFee = "fee"
)

// Map of selector functions with the different strategies.
var strategies = map[string]Func{
	StrategyFee: feeSelect,
}

// Func defines a function that takes the mempool's transactions and selects
// up to howMany of them that are ready to be mined at nextBlockTime. The
// returned values are indexes into txs, in selection order. Passing a value
// of 0 or less for howMany selects every ready transaction.
type Func func(txs []database.Tx, nextBlockTime uint64, howMany int) []int

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strings.ToLower(strategy)]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// feeSelect selects the transactions whose lock time has passed relative to
// the next block's timestamp, highest fee first. Transactions with equal fees
// keep their arrival order.
func feeSelect(txs []database.Tx, nextBlockTime uint64, howMany int) []int {
	ready := make([]int, 0, len(txs))
	for i, tx := range txs {
		if tx.LockTime < int64(nextBlockTime) {
			ready = append(ready, i)
		}
	}

	sort.SliceStable(ready, func(a, b int) bool {
		return txs[ready[a]].Fee > txs[ready[b]].Fee
	})

	if howMany > 0 && len(ready) > howMany {
		ready = ready[:howMany]
	}

	return ready
}
