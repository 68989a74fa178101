package state

import (
	"testing"

	"github.com/sofiacoin/node/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestValidateBalances(t *testing.T) {
	type table struct {
		name     string
		running  map[database.Address]int64
		replayed map[database.Address]int64
		valid    bool
	}

	tt := []table{
		{"equal", map[database.Address]int64{"A": 10, "B": 5}, map[database.Address]int64{"A": 10, "B": 5}, true},
		{"wallet", map[database.Address]int64{"A": 10, "W": 0}, map[database.Address]int64{"A": 10}, true},
		{"differs", map[database.Address]int64{"A": 11}, map[database.Address]int64{"A": 10}, false},
		{"missing", map[database.Address]int64{}, map[database.Address]int64{"A": 10}, false},
		{"extra", map[database.Address]int64{"A": 10, "E": 7}, map[database.Address]int64{"A": 10}, false},
	}

	t.Log("Given the need to compare the running balances with the chain.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				err := validateBalances(tst.running, tst.replayed)
				if (err == nil) != tst.valid {
					t.Fatalf("\t%s\tTest %d:\tShould report valid=%v for %s, got %v.", failed, testID, tst.valid, tst.name, err)
				}
				t.Logf("\t%s\tTest %d:\tShould report valid=%v for %s.", success, testID, tst.valid, tst.name)
			}

			t.Run(tst.name, f)
		}
	}
}
