// Package archive persists chain and mempool snapshots as gzip compressed
// JSON files, and merkle proofs as plain JSON documents.
package archive

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
)

// SaveChain writes the blocks to the specified archive file, replacing any
// previous archive atomically.
func SaveChain(path string, blocks []database.Block) error {
	return writeGzipJSON(path, blocks)
}

// LoadChain reads the blocks from the specified archive file. A missing file
// surfaces as fs.ErrNotExist so callers can treat it as an empty chain.
func LoadChain(path string) ([]database.Block, error) {
	var blocks []database.Block
	if err := readGzipJSON(path, &blocks); err != nil {
		return nil, err
	}

	return blocks, nil
}

// SaveMempool writes the pending transactions to the specified archive file,
// replacing any previous archive atomically.
func SaveMempool(path string, txs []database.Tx) error {
	return writeGzipJSON(path, txs)
}

// LoadMempool reads the pending transactions from the specified archive file.
// A missing file surfaces as fs.ErrNotExist so callers can treat it as an
// empty pool.
func LoadMempool(path string) ([]database.Tx, error) {
	var txs []database.Tx
	if err := readGzipJSON(path, &txs); err != nil {
		return nil, err
	}

	return txs, nil
}

// SaveProof writes the merkle proof to the specified file as an indented
// JSON document, so it can be shared and inspected directly.
func SaveProof(path string, proof database.MerkleProof) error {
	data, err := json.MarshalIndent(proof, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding proof: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating proof directory: %w", err)
		}
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing proof: %w", err)
	}

	return nil
}

// LoadProof reads a merkle proof from the specified file.
func LoadProof(path string) (database.MerkleProof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return database.MerkleProof{}, err
	}

	var proof database.MerkleProof
	if err := json.Unmarshal(data, &proof); err != nil {
		return database.MerkleProof{}, fmt.Errorf("decoding proof: %w", err)
	}

	return proof, nil
}

// =============================================================================

// writeGzipJSON encodes the value into a temp file next to the target and
// renames it into place, so a crash mid write never corrupts the archive.
func writeGzipJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp archive: %w", err)
	}
	defer os.Remove(f.Name())

	gz := gzip.NewWriter(f)
	if err := json.NewEncoder(gz).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encoding archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return fmt.Errorf("flushing archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp archive: %w", err)
	}

	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("replacing archive: %w", err)
	}

	return nil
}

// readGzipJSON decodes the value from a gzip compressed JSON file.
func readGzipJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gz.Close()

	if err := json.NewDecoder(gz).Decode(v); err != nil {
		return fmt.Errorf("decoding archive: %w", err)
	}

	return nil
}
