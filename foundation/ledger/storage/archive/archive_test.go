package archive_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/canonical"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/storage/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChain(t *testing.T) []database.Block {
	t.Helper()

	var txs []database.Tx
	for i := 0; i < 3; i++ {
		tx, err := database.NewTx(1697412600, int64(10+i),
			canonical.Field{Key: "from", Value: canonical.String("0xaaa")},
			canonical.Field{Key: "note", Value: canonical.String("hello")},
		)
		require.NoError(t, err)
		txs = append(txs, tx)
	}

	genesisBlock, err := database.POW(context.Background(), database.POWArgs{
		BeneficiaryID: "0xdc45038aee5144bbfa641912eaf32ebf2bad2bd7",
		Difficulty:    1,
		PrevBlockHash: canonical.ZeroHash,
		Height:        0,
		TimeStamp:     1697412600,
		Trans:         txs[:1],
	})
	require.NoError(t, err)

	nextBlock, err := database.POW(context.Background(), database.POWArgs{
		BeneficiaryID: "0xdc45038aee5144bbfa641912eaf32ebf2bad2bd7",
		Difficulty:    1,
		PrevBlockHash: genesisBlock.Header.Hash,
		Height:        1,
		TimeStamp:     1697412610,
		Trans:         txs[1:],
	})
	require.NoError(t, err)

	return []database.Block{genesisBlock, nextBlock}
}

func Test_ChainArchive(t *testing.T) {
	blocks := testChain(t)
	path := filepath.Join(t.TempDir(), "archive", "chain.json.gz")

	require.NoError(t, archive.SaveChain(path, blocks))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, data[:2], "archive is gzip compressed")

	loaded, err := archive.LoadChain(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(blocks))

	for i, block := range loaded {
		assert.Equal(t, blocks[i].Header, block.Header)
		assert.Equal(t, blocks[i].Header.Hash, block.Hash(), "loaded header still hashes to the stored value")
		assert.NoError(t, block.ValidateBlock(nil, nil))
	}

	require.NoError(t, archive.SaveChain(path, blocks[:1]), "saving over an existing archive replaces it")
	loaded, err = archive.LoadChain(path)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func Test_MempoolArchive(t *testing.T) {
	blocks := testChain(t)
	txs := append(blocks[0].Transactions, blocks[1].Transactions...)
	path := filepath.Join(t.TempDir(), "mempool.json.gz")

	require.NoError(t, archive.SaveMempool(path, txs))

	loaded, err := archive.LoadMempool(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(txs))

	for i, tx := range loaded {
		assert.Equal(t, txs[i].Hash(), tx.Hash(), "hashes survive the round trip")
	}
}

func Test_ProofFile(t *testing.T) {
	blocks := testChain(t)
	block := blocks[1]

	proof, err := block.InclusionProof(block.Transactions[0].Hash())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "proofs", "proof.json")
	require.NoError(t, archive.SaveProof(path, proof))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), data[0], "proof files are plain JSON")

	loaded, err := archive.LoadProof(path)
	require.NoError(t, err)
	assert.Equal(t, proof, loaded)
	assert.True(t, loaded.Verify())
}

func Test_MissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	_, err := archive.LoadChain(filepath.Join(dir, "nope.json.gz"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = archive.LoadMempool(filepath.Join(dir, "nope.json.gz"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = archive.LoadProof(filepath.Join(dir, "nope.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bad := filepath.Join(dir, "bad.json.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not a gzip stream"), 0o644))

	_, err = archive.LoadChain(bad)
	assert.Error(t, err)
}
