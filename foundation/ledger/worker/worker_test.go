package worker_test

import (
	"testing"
	"time"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/canonical"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/genesis"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/state"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/worker"
)

const (
	success = "\u2713"
	failed  = "\u2717"

	miner = "0xdc45038aee5144bbfa641912eaf32ebf2bad2bd7"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newRunningState(t *testing.T, gen genesis.Genesis) *state.State {
	t.Helper()

	ev := func(v string, args ...any) {
		t.Logf(v, args...)
	}

	st, err := state.New(state.Config{
		MinerAddress: miner,
		Genesis:      gen,
		EvHandler:    ev,
	})
	ifErrFailNow(t, err)

	worker.Run(st, ev)

	return st
}

func submitTx(t *testing.T, st *state.State) {
	t.Helper()

	tx, err := database.NewTx(0, 10,
		canonical.Field{Key: "from", Value: canonical.String("0xaaa")},
	)
	ifErrFailNow(t, err)

	st.SubmitTransaction(tx)
}

func Test_SignalProduceBlocks(t *testing.T) {
	t.Log("Given the need to produce blocks in the background.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen signaling production of one block.", testID)
		{
			st := newRunningState(t, genesis.Default())
			defer st.Shutdown()

			submitTx(t, st)
			st.Worker.SignalProduceBlocks(1)

			deadline := time.Now().Add(10 * time.Second)
			for st.BlockCount() == 0 && time.Now().Before(deadline) {
				time.Sleep(50 * time.Millisecond)
			}

			if st.BlockCount() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have produced one block: got %d", failed, testID, st.BlockCount())
			}
			t.Logf("\t%s\tTest %d:\tShould have produced one block.", success, testID)

			if st.MempoolCount() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould have consumed the pending transaction.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have consumed the pending transaction.", success, testID)
		}
	}
}

func Test_SignalCancelProduce(t *testing.T) {
	t.Log("Given the need to cancel a production operation in flight.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the difficulty makes the search effectively endless.", testID)
		{
			gen := genesis.Default()
			gen.BaseDifficulty = 12
			gen.MaxDifficulty = 12

			st := newRunningState(t, gen)

			submitTx(t, st)
			st.Worker.SignalProduceBlocks(1)

			// Give the operation a moment to pick up the signal.
			time.Sleep(100 * time.Millisecond)

			done := st.Worker.SignalCancelProduce()
			done()

			// Shutdown blocks until the operation goroutines unwind, so
			// returning at all proves the cancel took effect.
			ifErrFailNow(t, st.Shutdown())

			if st.BlockCount() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould have cancelled before a block was produced.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have cancelled before a block was produced.", success, testID)

			if st.MempoolCount() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have left the transaction pending.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have left the transaction pending.", success, testID)
		}
	}
}
