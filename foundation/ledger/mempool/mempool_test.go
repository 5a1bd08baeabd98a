package mempool_test

import (
	"testing"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/database"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/mempool"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

func newTx(t *testing.T, lockTime int64, fee int64) database.Tx {
	t.Helper()

	tx, err := database.NewTx(lockTime, fee)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a transaction: %v", failed, err)
	}
	return tx
}

func TestCRUD(t *testing.T) {
	t.Log("Given the need to maintain pending transactions by identity.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen adding the same transaction content twice.", testID)
		{
			mp, err := mempool.New()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the mempool: %v", failed, testID, err)
			}

			tx := newTx(t, 0, 10)
			first := mp.Add(tx)
			second := mp.Add(tx)

			if first.ID == second.ID {
				t.Fatalf("\t%s\tTest %d:\tShould assign distinct identities.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould assign distinct identities.", success, testID)

			if mp.Count() != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould keep both entries: got %d", failed, testID, mp.Count())
			}
			t.Logf("\t%s\tTest %d:\tShould keep both entries.", success, testID)

			mp.Delete(first.ID)

			entries := mp.Entries()
			if len(entries) != 1 || entries[0].ID != second.ID {
				t.Fatalf("\t%s\tTest %d:\tShould remove only the specified entry.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould remove only the specified entry.", success, testID)

			mp.Delete(first.ID)
			if mp.Count() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould ignore unknown identities.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould ignore unknown identities.", success, testID)

			mp.Truncate()
			if mp.Count() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould be able to truncate the pool.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to truncate the pool.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen asking for an unknown strategy.", testID)
		{
			if _, err := mempool.NewWithStrategy("lifo"); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject the strategy.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the strategy.", success, testID)
		}
	}
}

func TestPickBest(t *testing.T) {
	t.Log("Given the need to pick the best transactions for the next block.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen picking two of four pending transactions.", testID)
		{
			mp, err := mempool.New()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the mempool: %v", failed, testID, err)
			}

			low := mp.Add(newTx(t, 0, 1))
			high := mp.Add(newTx(t, 0, 90))
			mid := mp.Add(newTx(t, 0, 50))
			mp.Add(newTx(t, 1697412610, 500))

			picks := mp.PickBest(1697412610, 2)
			if len(picks) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould pick two entries: got %d", failed, testID, len(picks))
			}
			if picks[0].ID != high.ID || picks[1].ID != mid.ID {
				t.Fatalf("\t%s\tTest %d:\tShould pick the highest fees among ready transactions.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould pick the highest fees among ready transactions.", success, testID)

			picks = mp.PickBest(1697412610, 0)
			if len(picks) != 3 || picks[2].ID != low.ID {
				t.Fatalf("\t%s\tTest %d:\tShould pick every ready transaction when uncapped.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould pick every ready transaction when uncapped.", success, testID)

			if mp.Count() != 4 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the pool untouched.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the pool untouched.", success, testID)
		}
	}
}
