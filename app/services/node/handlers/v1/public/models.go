package public

// submitResult is returned when a transaction is accepted into the mempool.
type submitResult struct {
	ID     string `json:"id"`
	Hash   string `json:"hash"`
	Status string `json:"status"`
}

// produceResult is returned when block production work is signaled.
type produceResult struct {
	Status string `json:"status"`
	Count  int    `json:"count,omitempty"`
}

// txHashResult carries the hash of one transaction in the chain.
type txHashResult struct {
	Height uint64 `json:"height"`
	Index  int    `json:"index"`
	Hash   string `json:"hash"`
}

// verifyProofRequest is the proof document a client submits for checking.
// The zero height and an empty sibling path are both legitimate, so only
// the fields that can never be empty carry validation tags.
type verifyProofRequest struct {
	BlockHeight uint64   `json:"block_height"`
	BlockHash   string   `json:"block_hash" validate:"required"`
	TxHash      string   `json:"transaction_hash" validate:"required"`
	TxIndex     int      `json:"transaction_index"`
	MerkleRoot  string   `json:"merkle_root" validate:"required"`
	Proof       []string `json:"proof"`
	TotalTrans  int      `json:"total_transactions" validate:"required,min=1"`
}

// verifyResult reports the outcome of checking a proof.
type verifyResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
