package state

import (
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
	"github.com/google/uuid"
)

// SubmitTransaction adds the transaction to the mempool and returns the
// identity it was assigned. The transaction stays in the pool until a
// produced block includes it.
func (s *State) SubmitTransaction(tx database.Tx) uuid.UUID {
	entry := s.mempool.Add(tx)

	s.evHandler("state: submitTransaction: id[%s] hash[%s] pending[%d]", entry.ID, tx.Hash(), s.mempool.Count())

	return entry.ID
}
