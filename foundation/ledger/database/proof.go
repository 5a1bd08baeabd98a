package database

import (
	"errors"
	"fmt"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/merkle"
)

// ErrTxNotFound indicates the transaction hash is not among a block's
// transactions.
var ErrTxNotFound = errors.New("transaction not found")

// MerkleProof carries the sibling path that ties one transaction to the
// merkle root committed in a block header. It is enough to check inclusion
// without the rest of the block's transactions.
type MerkleProof struct {
	BlockHeight uint64   `json:"block_height"`
	BlockHash   string   `json:"block_hash"`
	TxHash      string   `json:"transaction_hash"`
	TxIndex     int      `json:"transaction_index"`
	MerkleRoot  string   `json:"merkle_root"`
	Proof       []string `json:"proof"`
	TotalTrans  int      `json:"total_transactions"`
}

// InclusionProof builds the merkle proof for the transaction with the
// specified hash. When the block holds identical transactions, the first
// occurrence is proven.
func (b Block) InclusionProof(txHash string) (MerkleProof, error) {
	hashes := b.TransactionHashes()

	index := -1
	for i, hash := range hashes {
		if hash == txHash {
			index = i
			break
		}
	}
	if index == -1 {
		return MerkleProof{}, fmt.Errorf("hash %s in block %d: %w", txHash, b.Header.Height, ErrTxNotFound)
	}

	tree := merkle.NewTree(hashes)
	siblings, err := tree.Proof(index)
	if err != nil {
		return MerkleProof{}, err
	}

	proof := MerkleProof{
		BlockHeight: b.Header.Height,
		BlockHash:   b.Header.Hash,
		TxHash:      txHash,
		TxIndex:     index,
		MerkleRoot:  tree.Root(),
		Proof:       siblings,
		TotalTrans:  len(b.Transactions),
	}

	return proof, nil
}

// Verify folds the proof's sibling path and reports whether it reproduces
// the proof's merkle root. It checks the path in isolation; use the state
// layer to cross check the proof against a chain.
func (p MerkleProof) Verify() bool {
	return merkle.Verify(p.TxHash, p.Proof, p.MerkleRoot, p.TxIndex, p.TotalTrans)
}
