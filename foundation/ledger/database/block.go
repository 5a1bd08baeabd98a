package database

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/canonical"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/merkle"
)

// powProgressCadence is how many attempts each mining G makes between
// progress events.
const powProgressCadence = 10_000

// =============================================================================

// BlockHeader represents the common information required for each block.
type BlockHeader struct {
	Difficulty    int    `json:"difficulty"`                 // Leading zero hex characters the hash must carry.
	Height        uint64 `json:"height"`                     // Position of the block in the chain, genesis is 0.
	Miner         string `json:"miner"`                      // Address credited with the work.
	Nonce         uint64 `json:"nonce"`                      // Value adjusted until the hash satisfies Difficulty.
	PrevBlockHash string `json:"previous_block_header_hash"` // Hash of the previous block's header.
	TimeStamp     uint64 `json:"timestamp"`                  // Unix time the block is stamped with.
	TransCount    int    `json:"transactions_count"`         // Number of transactions in the block.
	TransRoot     string `json:"transactions_merkle_root"`   // Merkle root over the transaction hashes.
	Hash          string `json:"hash"`                       // Hash of this header, never part of its own hash.
}

// fields assembles the hashed header fields. The stored hash is excluded
// so the hash stays reproducible from the rest of the header.
func (h BlockHeader) fields() []canonical.Field {
	return []canonical.Field{
		{Key: "difficulty", Value: canonical.Int(int64(h.Difficulty))},
		{Key: "height", Value: canonical.Int(int64(h.Height))},
		{Key: "miner", Value: canonical.String(h.Miner)},
		{Key: "nonce", Value: canonical.Int(int64(h.Nonce))},
		{Key: "previous_block_header_hash", Value: canonical.String(h.PrevBlockHash)},
		{Key: "timestamp", Value: canonical.Int(int64(h.TimeStamp))},
		{Key: "transactions_count", Value: canonical.Int(int64(h.TransCount))},
		{Key: "transactions_merkle_root", Value: canonical.String(h.TransRoot)},
	}
}

// Block represents a group of transactions batched together under a
// proven header.
type Block struct {
	Header       BlockHeader `json:"header"`
	Transactions []Tx        `json:"transactions"`
}

// Hash recomputes the block's header hash from the hashed header fields.
func (b Block) Hash() string {
	return canonical.Hash(b.Header.fields())
}

// TransactionHashes returns the canonical hash of every transaction in
// block order.
func (b Block) TransactionHashes() []string {
	return hashTrans(b.Transactions)
}

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	BeneficiaryID string
	Difficulty    int
	PrevBlockHash string
	Height        uint64
	TimeStamp     uint64
	Trans         []Tx
	EvHandler     func(v string, args ...any)
}

// POW constructs the next block from the arguments and performs the work
// to find a nonce whose header hash satisfies the difficulty. The search
// has no upper bound; it stops early only when ctx is canceled.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := func(v string, evArgs ...any) {
		if args.EvHandler != nil {
			args.EvHandler(v, evArgs...)
		}
	}

	tree := merkle.NewTree(hashTrans(args.Trans))

	header := BlockHeader{
		Difficulty:    args.Difficulty,
		Height:        args.Height,
		Miner:         args.BeneficiaryID,
		Nonce:         0,
		PrevBlockHash: args.PrevBlockHash,
		TimeStamp:     args.TimeStamp,
		TransCount:    len(args.Trans),
		TransRoot:     tree.Root(),
	}

	header, err := performPOW(ctx, header, ev)
	if err != nil {
		return Block{}, err
	}

	block := Block{
		Header:       header,
		Transactions: args.Trans,
	}

	return block, nil
}

// performPOW runs the nonce search across one G per CPU. Every G walks its
// own slice of the nonce space on a private header copy, so no candidate
// header is ever shared or mutated concurrently. Any nonce that satisfies
// the zero prefix wins.
func performPOW(ctx context.Context, header BlockHeader, ev func(v string, args ...any)) (BlockHeader, error) {
	ev("database: performPOW: MINING: started: height[%d] difficulty[%d]", header.Height, header.Difficulty)
	defer ev("database: performPOW: MINING: completed: height[%d]", header.Height)

	gs := runtime.NumCPU()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan BlockHeader, gs)

	var wg sync.WaitGroup
	wg.Add(gs)

	for i := 0; i < gs; i++ {
		go func(offset uint64) {
			defer wg.Done()

			candidate := header
			candidate.Nonce = offset

			for attempts := uint64(1); ; attempts++ {
				if ctx.Err() != nil {
					return
				}
				if attempts%powProgressCadence == 0 {
					ev("database: performPOW: MINING: running: height[%d] nonce[%d]", candidate.Height, candidate.Nonce)
				}

				hash := canonical.Hash(candidate.fields())
				if isHashSolved(candidate.Difficulty, hash) {
					candidate.Hash = hash
					found <- candidate
					cancel()
					return
				}

				candidate.Nonce += uint64(gs)
			}
		}(uint64(i))
	}

	wg.Wait()

	select {
	case solved := <-found:
		ev("database: performPOW: MINING: solved: height[%d] nonce[%d] hash[%s]", solved.Height, solved.Nonce, solved.Hash)
		return solved, nil
	default:
		return BlockHeader{}, ctx.Err()
	}
}

// isHashSolved checks the hash to make sure it complies with the POW
// rules: difficulty leading zero characters in the hex body.
func isHashSolved(difficulty int, hash string) bool {
	const zeros = "00000000000000000000000000000000"

	if difficulty < 1 || difficulty > len(zeros) {
		return false
	}
	if len(hash) != 66 || !strings.HasPrefix(hash, "0x") {
		return false
	}

	return hash[2:2+difficulty] == zeros[:difficulty]
}

// =============================================================================

// ValidateBlock checks the block for chain linkage and internal
// consistency. A nil previousBlock marks the block as genesis and skips
// the linkage checks. The first failed check is returned as the error; a
// nil error means the block holds up.
func (b Block) ValidateBlock(previousBlock *Block, evHandler func(v string, args ...any)) error {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	if previousBlock != nil {
		ev("database: ValidateBlock: blk[%d]: check: chain linkage", b.Header.Height)

		if b.Header.Height != previousBlock.Header.Height+1 {
			return fmt.Errorf("this block is not the next height, got %d, exp %d", b.Header.Height, previousBlock.Header.Height+1)
		}
		if b.Header.PrevBlockHash != previousBlock.Header.Hash {
			return fmt.Errorf("previous block hash doesn't match, got %s, exp %s", b.Header.PrevBlockHash, previousBlock.Header.Hash)
		}
	}

	ev("database: ValidateBlock: blk[%d]: check: header hash is reproducible", b.Header.Height)

	if hash := b.Hash(); b.Header.Hash != hash {
		return fmt.Errorf("stored hash doesn't match the header, got %s, exp %s", b.Header.Hash, hash)
	}

	ev("database: ValidateBlock: blk[%d]: check: hash solves the difficulty", b.Header.Height)

	if !isHashSolved(b.Header.Difficulty, b.Header.Hash) {
		return fmt.Errorf("hash %s doesn't carry %d leading zeros", b.Header.Hash, b.Header.Difficulty)
	}

	ev("database: ValidateBlock: blk[%d]: check: transactions count", b.Header.Height)

	if b.Header.TransCount != len(b.Transactions) {
		return fmt.Errorf("transactions count doesn't match, got %d, exp %d", len(b.Transactions), b.Header.TransCount)
	}

	ev("database: ValidateBlock: blk[%d]: check: merkle root is reproducible", b.Header.Height)

	if root := merkle.NewTree(b.TransactionHashes()).Root(); b.Header.TransRoot != root {
		return fmt.Errorf("merkle root doesn't match the transactions, got %s, exp %s", b.Header.TransRoot, root)
	}

	return nil
}

// hashTrans hashes every transaction in order.
func hashTrans(trans []Tx) []string {
	hashes := make([]string, len(trans))
	for i, tx := range trans {
		hashes[i] = tx.Hash()
	}

	return hashes
}
