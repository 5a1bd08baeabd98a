package worker

import (
	"context"
	"sync"
	"time"
)

// produceOperations handles block production.
func (w *Worker) produceOperations() {
	w.evHandler("worker: produceOperations: G started")
	defer w.evHandler("worker: produceOperations: G completed")

	for {
		select {
		case count := <-w.produceBlocks:
			if !w.isShutdown() {
				w.runProduceOperation(count)
			}
		case <-w.shut:
			w.evHandler("worker: produceOperations: received shut signal")
			return
		}
	}
}

// runProduceOperation mines the requested number of blocks and appends them
// to the chain.
func (w *Worker) runProduceOperation(count int) {
	w.evHandler("worker: runProduceOperation: PRODUCING: started")
	defer w.evHandler("worker: runProduceOperation: PRODUCING: completed")

	// If production is signalled to be cancelled, this G can't terminate
	// until it is told it can.
	var wait chan struct{}
	defer func() {
		if wait != nil {
			w.evHandler("worker: runProduceOperation: PRODUCING: termination signal: waiting")
			<-wait
			w.evHandler("worker: runProduceOperation: PRODUCING: termination signal: received")
		}
	}()

	// Drain the cancel production channel before starting.
	select {
	case <-w.cancelProduce:
		w.evHandler("worker: runProduceOperation: PRODUCING: drained cancel channel")
	default:
	}

	// Create a context so production can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the production operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case wait = <-w.cancelProduce:
			w.evHandler("worker: runProduceOperation: PRODUCING: CANCEL: requested")
		case <-w.shut:
			w.evHandler("worker: runProduceOperation: PRODUCING: shutdown requested")
		case <-ctx.Done():
		}
	}()

	// This G is performing the block production.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		err := w.state.ProduceBlocks(ctx, count)
		duration := time.Since(t)

		w.evHandler("worker: runProduceOperation: PRODUCING: duration[%v]", duration)

		if err != nil {
			switch {
			case ctx.Err() != nil:
				w.evHandler("worker: runProduceOperation: PRODUCING: CANCEL: complete")
			default:
				w.evHandler("worker: runProduceOperation: PRODUCING: ERROR: %s", err)
			}
		}
	}()

	// Wait for both G's to terminate.
	wg.Wait()
}
