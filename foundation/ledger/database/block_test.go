package database_test

import (
	"context"
	"strings"
	"testing"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/canonical"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/merkle"
)

const miner = "0xdc45038aee5144bbfa641912eaf32ebf2bad2bd7"

// referenceHeader is a header with a known canonical hash.
func referenceHeader() database.BlockHeader {
	return database.BlockHeader{
		Difficulty:    5,
		Height:        203,
		Miner:         miner,
		Nonce:         0,
		PrevBlockHash: "0xb2448304889df2935277464e90a73e53b9d2c5820c48de4a40d4fa5b844c7b57",
		TimeStamp:     1697412660,
		TransCount:    97,
		TransRoot:     "0xddba0c2d7d38a9bc8ba357d1fcb4a4be339ab5fddf8cdcc4419970e4746d1f6e",
	}
}

func testTxs(t *testing.T, count int) []database.Tx {
	t.Helper()

	txs := make([]database.Tx, count)
	for i := range txs {
		tx, err := database.NewTx(1697412600, int64(10+i),
			canonical.Field{Key: "from", Value: canonical.String("0xaaa")},
			canonical.Field{Key: "nonce", Value: canonical.Int(int64(i))},
		)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct test transactions: %v", failed, err)
		}
		txs[i] = tx
	}

	return txs
}

func TestHeaderHashVector(t *testing.T) {
	t.Log("Given the need to reproduce the reference header hash.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen hashing the known block header at height 203.", testID)
		{
			block := database.Block{Header: referenceHeader()}

			const exp = "0x073c348de2486c616699fcd8267dc895f2d8b43355b126295da92df2961f8a87"
			if hash := block.Hash(); hash != exp {
				t.Fatalf("\t%s\tTest %d:\tShould reproduce the reference hash: got %s, exp %s", failed, testID, hash, exp)
			}
			t.Logf("\t%s\tTest %d:\tShould reproduce the reference hash.", success, testID)

			hdr := referenceHeader()
			hdr.Hash = exp
			block = database.Block{Header: hdr}
			if block.Hash() != exp {
				t.Fatalf("\t%s\tTest %d:\tShould exclude the stored hash from its own hash.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould exclude the stored hash from its own hash.", success, testID)
		}
	}
}

func TestPOW(t *testing.T) {
	t.Log("Given the need to mine a block that satisfies the difficulty.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining a block with difficulty 2.", testID)
		{
			txs := testTxs(t, 4)

			block, err := database.POW(context.Background(), database.POWArgs{
				BeneficiaryID: miner,
				Difficulty:    2,
				PrevBlockHash: canonical.ZeroHash,
				Height:        0,
				TimeStamp:     1697412600,
				Trans:         txs,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, testID)

			if !strings.HasPrefix(block.Header.Hash, "0x00") {
				t.Fatalf("\t%s\tTest %d:\tShould carry two leading zeros: got %s", failed, testID, block.Header.Hash)
			}
			t.Logf("\t%s\tTest %d:\tShould carry two leading zeros.", success, testID)

			if block.Header.Hash != block.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould store a reproducible header hash.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould store a reproducible header hash.", success, testID)

			if root := merkle.NewTree(block.TransactionHashes()).Root(); block.Header.TransRoot != root {
				t.Fatalf("\t%s\tTest %d:\tShould commit to the transactions via the merkle root.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould commit to the transactions via the merkle root.", success, testID)

			if block.Header.TransCount != len(txs) {
				t.Fatalf("\t%s\tTest %d:\tShould record the transaction count: got %d", failed, testID, block.Header.TransCount)
			}
			t.Logf("\t%s\tTest %d:\tShould record the transaction count.", success, testID)

			if err := block.ValidateBlock(nil, nil); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould produce a block that validates as genesis: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould produce a block that validates as genesis.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen mining an empty block.", testID)
		{
			block, err := database.POW(context.Background(), database.POWArgs{
				BeneficiaryID: miner,
				Difficulty:    1,
				PrevBlockHash: canonical.ZeroHash,
				Height:        0,
				TimeStamp:     1697412600,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine an empty block: %v", failed, testID, err)
			}

			if block.Header.TransRoot != canonical.ZeroHash {
				t.Fatalf("\t%s\tTest %d:\tShould commit to the zero hash root: got %s", failed, testID, block.Header.TransRoot)
			}
			t.Logf("\t%s\tTest %d:\tShould commit to the zero hash root.", success, testID)
		}

		testID = 2
		t.Logf("\tTest %d:\tWhen the context is already canceled.", testID)
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := database.POW(ctx, database.POWArgs{
				BeneficiaryID: miner,
				Difficulty:    6,
				PrevBlockHash: canonical.ZeroHash,
				Height:        0,
				TimeStamp:     1697412600,
			}); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould stop the search with an error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould stop the search with an error.", success, testID)
		}
	}
}

func TestValidateBlock(t *testing.T) {
	t.Log("Given the need to detect invalid blocks.")
	{
		ctx := context.Background()
		txs := testTxs(t, 3)

		genesisBlock, err := database.POW(ctx, database.POWArgs{
			BeneficiaryID: miner,
			Difficulty:    1,
			PrevBlockHash: canonical.ZeroHash,
			Height:        0,
			TimeStamp:     1697412600,
			Trans:         txs[:1],
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine the genesis block: %v", failed, err)
		}

		nextBlock, err := database.POW(ctx, database.POWArgs{
			BeneficiaryID: miner,
			Difficulty:    1,
			PrevBlockHash: genesisBlock.Header.Hash,
			Height:        1,
			TimeStamp:     1697412610,
			Trans:         txs[1:],
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine the next block: %v", failed, err)
		}

		testID := 0
		t.Logf("\tTest %d:\tWhen validating a well formed pair.", testID)
		{
			if err := nextBlock.ValidateBlock(&genesisBlock, nil); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept the pair: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould accept the pair.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen the chain linkage is broken.", testID)
		{
			bad := nextBlock
			bad.Header.Height = 5
			if err := bad.ValidateBlock(&genesisBlock, nil); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a height gap.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a height gap.", success, testID)

			bad = nextBlock
			bad.Header.PrevBlockHash = canonical.ZeroHash
			if err := bad.ValidateBlock(&genesisBlock, nil); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a parent hash mismatch.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a parent hash mismatch.", success, testID)
		}

		testID = 2
		t.Logf("\tTest %d:\tWhen the header was tampered with after mining.", testID)
		{
			bad := nextBlock
			bad.Header.Miner = "0x0000000000000000000000000000000000000042"
			if err := bad.ValidateBlock(&genesisBlock, nil); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a header whose stored hash no longer matches.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a header whose stored hash no longer matches.", success, testID)
		}

		testID = 3
		t.Logf("\tTest %d:\tWhen the hash doesn't satisfy the difficulty.", testID)
		{
			hdr := referenceHeader()
			unsolved := database.Block{Header: hdr}
			hdr.Hash = unsolved.Hash()
			unsolved = database.Block{Header: hdr}

			err := unsolved.ValidateBlock(nil, nil)
			if err == nil || !strings.Contains(err.Error(), "leading zeros") {
				t.Fatalf("\t%s\tTest %d:\tShould reject an unsolved hash: got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject an unsolved hash.", success, testID)
		}

		testID = 4
		t.Logf("\tTest %d:\tWhen the transactions were mutated after mining.", testID)
		{
			bad := nextBlock
			bad.Transactions = txs
			if err := bad.ValidateBlock(&genesisBlock, nil); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a transaction count mismatch.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a transaction count mismatch.", success, testID)

			bad = nextBlock
			swapped := make([]database.Tx, len(nextBlock.Transactions))
			copy(swapped, nextBlock.Transactions)
			swapped[0] = txs[0]
			bad.Transactions = swapped
			if err := bad.ValidateBlock(&genesisBlock, nil); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a swapped transaction.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a swapped transaction.", success, testID)
		}
	}
}
