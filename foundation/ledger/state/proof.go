package state

import (
	"errors"
	"fmt"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
)

// GenerateProof builds a merkle inclusion proof for the transaction with the
// specified hash inside the block at the specified height.
func (s *State) GenerateProof(height uint64, txHash string) (database.MerkleProof, error) {
	block, err := s.RetrieveBlock(height)
	if err != nil {
		return database.MerkleProof{}, err
	}

	proof, err := block.InclusionProof(txHash)
	if err != nil {
		return database.MerkleProof{}, err
	}

	s.evHandler("state: generateProof: block[%d] tx[%s] index[%d] siblings[%d]", height, txHash, proof.TxIndex, len(proof.Proof))

	return proof, nil
}

// VerifyProof checks that the merkle path reproduces the proof's root and
// then cross checks the proof against the block stored at its height. The
// returned error carries the reason the proof was rejected.
func (s *State) VerifyProof(proof database.MerkleProof) error {
	if !proof.Verify() {
		return errors.New("merkle path doesn't reproduce the root")
	}

	block, err := s.RetrieveBlock(proof.BlockHeight)
	if err != nil {
		return err
	}

	if block.Header.Hash != proof.BlockHash {
		return fmt.Errorf("block hash doesn't match the chain, got %s, exp %s", proof.BlockHash, block.Header.Hash)
	}

	if block.Header.TransRoot != proof.MerkleRoot {
		return fmt.Errorf("merkle root doesn't match the chain, got %s, exp %s", proof.MerkleRoot, block.Header.TransRoot)
	}

	if block.Header.TransCount != proof.TotalTrans {
		return fmt.Errorf("transaction count doesn't match the chain, got %d, exp %d", proof.TotalTrans, block.Header.TransCount)
	}

	return nil
}
