package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/canonical"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
)

func TestInclusionProof(t *testing.T) {
	t.Log("Given the need to prove a transaction belongs to a block.")
	{
		txs := testTxs(t, 5)

		block, err := database.POW(context.Background(), database.POWArgs{
			BeneficiaryID: miner,
			Difficulty:    1,
			PrevBlockHash: canonical.ZeroHash,
			Height:        0,
			TimeStamp:     1697412600,
			Trans:         txs,
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine the block: %v", failed, err)
		}

		testID := 0
		t.Logf("\tTest %d:\tWhen proving every transaction in the block.", testID)
		{
			for i, tx := range txs {
				proof, err := block.InclusionProof(tx.Hash())
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to build a proof for index %d: %v", failed, testID, i, err)
				}

				if proof.BlockHeight != block.Header.Height || proof.BlockHash != block.Header.Hash {
					t.Fatalf("\t%s\tTest %d:\tShould bind the proof to the block.", failed, testID)
				}
				if proof.TxHash != tx.Hash() || proof.TxIndex != i {
					t.Fatalf("\t%s\tTest %d:\tShould bind the proof to the transaction.", failed, testID)
				}
				if proof.MerkleRoot != block.Header.TransRoot {
					t.Fatalf("\t%s\tTest %d:\tShould carry the block's merkle root.", failed, testID)
				}
				if proof.TotalTrans != len(txs) {
					t.Fatalf("\t%s\tTest %d:\tShould carry the transaction count.", failed, testID)
				}

				if !proof.Verify() {
					t.Fatalf("\t%s\tTest %d:\tShould verify the proof for index %d.", failed, testID, i)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould be able to prove every transaction in the block.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen asking for a transaction the block doesn't contain.", testID)
		{
			unknown, err := database.NewTx(1, 1)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a transaction: %v", failed, testID, err)
			}

			if _, err := block.InclusionProof(unknown.Hash()); !errors.Is(err, database.ErrTxNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrTxNotFound: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrTxNotFound.", success, testID)
		}

		testID = 2
		t.Logf("\tTest %d:\tWhen the block contains the same transaction twice.", testID)
		{
			dupTxs := []database.Tx{txs[1], txs[0], txs[1]}
			dupBlock := database.Block{
				Header: database.BlockHeader{
					Height:     1,
					TransCount: len(dupTxs),
				},
				Transactions: dupTxs,
			}

			proof, err := dupBlock.InclusionProof(txs[1].Hash())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to build the proof: %v", failed, testID, err)
			}

			if proof.TxIndex != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould pick the first occurrence: got index %d", failed, testID, proof.TxIndex)
			}
			t.Logf("\t%s\tTest %d:\tShould pick the first occurrence.", success, testID)
		}

		testID = 3
		t.Logf("\tTest %d:\tWhen the proof is tampered with.", testID)
		{
			proof, err := block.InclusionProof(txs[2].Hash())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to build the proof: %v", failed, testID, err)
			}

			bad := proof
			bad.TxHash = flipHex(proof.TxHash)
			if bad.Verify() {
				t.Fatalf("\t%s\tTest %d:\tShould reject a corrupted transaction hash.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a corrupted transaction hash.", success, testID)

			bad = proof
			bad.Proof = append([]string{}, proof.Proof...)
			bad.Proof[0] = flipHex(bad.Proof[0])
			if bad.Verify() {
				t.Fatalf("\t%s\tTest %d:\tShould reject a corrupted sibling hash.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a corrupted sibling hash.", success, testID)

			bad = proof
			bad.MerkleRoot = flipHex(proof.MerkleRoot)
			if bad.Verify() {
				t.Fatalf("\t%s\tTest %d:\tShould reject a corrupted root.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a corrupted root.", success, testID)

			bad = proof
			bad.TotalTrans = 100
			if bad.Verify() {
				t.Fatalf("\t%s\tTest %d:\tShould reject an inflated transaction count.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject an inflated transaction count.", success, testID)
		}
	}
}

// flipHex changes the last hex digit of a prefixed hash.
func flipHex(hash string) string {
	last := hash[len(hash)-1]
	repl := "0"
	if last == '0' {
		repl = "1"
	}
	return strings.TrimSuffix(hash, string(last)) + repl
}
