package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sofiacoin/node/business/web/errs"
	"github.com/sofiacoin/node/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestFromLedger(t *testing.T) {
	type table struct {
		name   string
		err    error
		status int
	}

	tt := []table{
		{"invalid", fmt.Errorf("%w: amount must be positive", database.ErrInvalidTransaction), http.StatusBadRequest},
		{"funds", fmt.Errorf("%w: account A has 0", database.ErrInsufficientFunds), http.StatusBadRequest},
		{"signature", database.ErrInvalidSignature, http.StatusBadRequest},
		{"miner", database.ErrMissingMiner, http.StatusBadRequest},
		{"supply", fmt.Errorf("%w: supply[10]", database.ErrSupplyExhausted), http.StatusConflict},
		{"unknown", errors.New("disk on fire"), 0},
	}

	t.Log("Given the need to map ledger errors to a status.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				err := errs.FromLedger(tst.err)

				if tst.status == 0 {
					if errs.IsTrusted(err) {
						t.Fatalf("\t%s\tTest %d:\tShould leave an unknown error untrusted.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould leave an unknown error untrusted.", success, testID)
					return
				}

				trusted := errs.GetTrusted(err)
				if trusted == nil || trusted.Status != tst.status {
					t.Fatalf("\t%s\tTest %d:\tShould get status %d, got %+v.", failed, testID, tst.status, trusted)
				}
				t.Logf("\t%s\tTest %d:\tShould get status %d.", success, testID, tst.status)

				if !errors.Is(err, tst.err) {
					t.Fatalf("\t%s\tTest %d:\tShould keep the original error in the chain.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould keep the original error in the chain.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}
