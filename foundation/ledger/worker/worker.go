// Package worker implements background block production for the ledger.
package worker

import (
	"sync"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/state"
)

// Worker manages the POW workflows for the ledger.
type Worker struct {
	state         *state.State
	wg            sync.WaitGroup
	shut          chan struct{}
	produceBlocks chan int
	cancelProduce chan chan struct{}
	evHandler     state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, evHandler state.EventHandler) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	w := Worker{
		state:         st,
		shut:          make(chan struct{}),
		produceBlocks: make(chan int, 1),
		cancelProduce: make(chan chan struct{}, 1),
		evHandler:     ev,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.produceOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: signal cancel production")
	done := w.SignalCancelProduce()
	done()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalProduceBlocks queues up a production operation for the specified
// number of blocks. If there is already a signal pending in the channel,
// the signal is dropped since an operation is going to start.
func (w *Worker) SignalProduceBlocks(count int) {
	select {
	case w.produceBlocks <- count:
		w.evHandler("worker: SignalProduceBlocks: production of %d blocks signaled", count)
	default:
		w.evHandler("worker: SignalProduceBlocks: operation already pending, signal dropped")
	}
}

// SignalCancelProduce signals the G executing the runProduceOperation function
// to stop immediately. That G will not return from the function until done
// is called. This allows the caller to complete any state changes before a
// new production operation takes place.
func (w *Worker) SignalCancelProduce() (done func()) {
	wait := make(chan struct{})

	select {
	case w.cancelProduce <- wait:
	default:
	}
	w.evHandler("worker: SignalCancelProduce: cancel production signaled")

	return func() { close(wait) }
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
