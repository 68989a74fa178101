package database_test

import (
	"testing"
	"time"

	"github.com/sofiacoin/node/foundation/blockchain/database"
)

func TestApplyTransactions(t *testing.T) {
	type table struct {
		name  string
		txs   []database.Tx
		final map[database.Address]int64
	}

	tt := []table{
		{
			name: "reward",
			txs: []database.Tx{
				{From: database.SystemAddress, To: "M", Amount: 99},
				{From: database.SystemAddress, To: "C", Amount: 1},
			},
			final: map[database.Address]int64{"SYSTEM": 0, "M": 99, "C": 1},
		},
		{
			name: "transfer",
			txs: []database.Tx{
				{From: database.SystemAddress, To: "A", Amount: 100},
				{From: "A", To: "B", Amount: 30},
				{From: "B", To: "A", Amount: 10},
			},
			final: map[database.Address]int64{"SYSTEM": 0, "A": 80, "B": 20},
		},
		{
			name: "overdraw",
			txs: []database.Tx{
				{From: database.SystemAddress, To: "A", Amount: 10},
				{From: "A", To: "B", Amount: 10},
				{From: "A", To: "B", Amount: 10},
			},
			final: map[database.Address]int64{"SYSTEM": 0, "A": -10, "B": 20},
		},
	}

	t.Log("Given the need to derive balances from transactions.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				ledger := database.NewLedger()
				ledger.ApplyTransactions(tst.txs)

				balances := ledger.Copy()
				if len(balances) != len(tst.final) {
					t.Fatalf("\t%s\tTest %d:\tShould have %d accounts, got %d.", failed, testID, len(tst.final), len(balances))
				}
				t.Logf("\t%s\tTest %d:\tShould have %d accounts.", success, testID, len(tst.final))

				for addr, exp := range tst.final {
					if got := ledger.Balance(addr); got != exp {
						t.Errorf("\t%s\tTest %d:\tShould have correct balance for %s, got %d, exp %d.", failed, testID, addr, got, exp)
						continue
					}
					t.Logf("\t%s\tTest %d:\tShould have correct balance for %s.", success, testID, addr)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func TestReplay(t *testing.T) {
	t.Log("Given the need to rebuild balances from the chain.")
	{
		blocks := []database.Block{
			database.Genesis(time.Now()),
			{Index: 1, Transactions: []database.Tx{{From: database.SystemAddress, To: "A", Amount: 50}}},
			{Index: 2, Transactions: []database.Tx{{From: "A", To: "B", Amount: 20}}},
		}

		balances := database.Replay(blocks)
		if balances["A"] != 30 || balances["B"] != 20 {
			t.Fatalf("\t%s\tShould replay to A=30 B=20, got A=%d B=%d.", failed, balances["A"], balances["B"])
		}
		t.Logf("\t%s\tShould replay to A=30 B=20.", success)

		ledger := database.NewLedger()
		if !ledger.Register("W") || ledger.Register("W") {
			t.Fatalf("\t%s\tShould only register an address once.", failed)
		}
		t.Logf("\t%s\tShould only register an address once.", success)

		if accts := ledger.Accounts(); len(accts) != 1 || accts[0].Address != "W" || ledger.Balance("W") != 0 || ledger.Balance("unknown") != 0 {
			t.Fatalf("\t%s\tShould report zero balances.", failed)
		}
		t.Logf("\t%s\tShould report zero balances.", success)
	}
}
