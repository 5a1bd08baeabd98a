// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/business/web/errs"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/events"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/state"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/validate"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis parameters the node runs under.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Chain returns every block from genesis to the latest.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.RetrieveChain()
	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlockByHeight returns the block at the specified height.
func (h Handlers) BlockByHeight(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	height, err := strconv.ParseUint(web.Param(r, "height"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("parsing height: %w", err), http.StatusBadRequest)
	}

	block, err := h.State.RetrieveBlock(height)
	if err != nil {
		if errors.Is(err, state.ErrInvalidHeight) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// TransactionHash returns the hash of the transaction at the specified
// position in the chain.
func (h Handlers) TransactionHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	height, err := strconv.ParseUint(web.Param(r, "height"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("parsing height: %w", err), http.StatusBadRequest)
	}

	index, err := strconv.Atoi(web.Param(r, "index"))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("parsing index: %w", err), http.StatusBadRequest)
	}

	hash, err := h.State.RetrieveTransactionHash(height, index)
	if err != nil {
		if errors.Is(err, state.ErrInvalidHeight) || errors.Is(err, state.ErrInvalidIndex) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	result := txHashResult{
		Height: height,
		Index:  index,
		Hash:   hash,
	}

	return web.Respond(ctx, w, result, http.StatusOK)
}

// Mempool returns the set of pending transactions in arrival order.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	entries := h.State.RetrieveMempool()
	return web.Respond(ctx, w, entries, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	id := h.State.SubmitTransaction(tx)
	h.Log.Infow("add tran", "traceid", v.TraceID, "id", id, "lock_time", tx.LockTime, "fee", tx.Fee)

	result := submitResult{
		ID:     id.String(),
		Hash:   tx.Hash(),
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, result, http.StatusOK)
}

// ProduceBlocks signals the worker to produce the specified number of blocks.
func (h Handlers) ProduceBlocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	count, err := strconv.Atoi(web.Param(r, "count"))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("parsing count: %w", err), http.StatusBadRequest)
	}
	if count < 1 {
		return errs.NewTrusted(errors.New("count must be at least 1"), http.StatusBadRequest)
	}

	h.State.Worker.SignalProduceBlocks(count)

	result := produceResult{
		Status: "block production signaled",
		Count:  count,
	}

	return web.Respond(ctx, w, result, http.StatusAccepted)
}

// CancelProduce signals the worker to stop any in flight block production.
func (h Handlers) CancelProduce(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	done := h.State.Worker.SignalCancelProduce()
	done()

	result := produceResult{
		Status: "cancel production signaled",
	}

	return web.Respond(ctx, w, result, http.StatusOK)
}

// GenerateProof builds the merkle inclusion proof for one transaction in
// the chain.
func (h Handlers) GenerateProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	height, err := strconv.ParseUint(web.Param(r, "height"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("parsing height: %w", err), http.StatusBadRequest)
	}
	txHash := web.Param(r, "tx")

	proof, err := h.State.GenerateProof(height, txHash)
	if err != nil {
		if errors.Is(err, state.ErrInvalidHeight) || errors.Is(err, database.ErrTxNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, proof, http.StatusOK)
}

// VerifyProof checks a merkle inclusion proof against the node's chain. The
// outcome is reported in the response body, so a proof that fails the check
// is not an error.
func (h Handlers) VerifyProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req verifyProofRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return fmt.Errorf("validating proof: %w", err)
	}

	proof := database.MerkleProof{
		BlockHeight: req.BlockHeight,
		BlockHash:   req.BlockHash,
		TxHash:      req.TxHash,
		TxIndex:     req.TxIndex,
		MerkleRoot:  req.MerkleRoot,
		Proof:       req.Proof,
		TotalTrans:  req.TotalTrans,
	}

	result := verifyResult{Valid: true}
	if err := h.State.VerifyProof(proof); err != nil {
		result = verifyResult{Valid: false, Reason: err.Error()}
	}

	return web.Respond(ctx, w, result, http.StatusOK)
}
