package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sofiacoin/node/app/services/node/handlers"
	"github.com/sofiacoin/node/business/web/errs"
	"github.com/sofiacoin/node/foundation/blockchain/database"
	"github.com/sofiacoin/node/foundation/blockchain/database/storage/memory"
	"github.com/sofiacoin/node/foundation/blockchain/genesis"
	"github.com/sofiacoin/node/foundation/blockchain/state"
	"github.com/sofiacoin/node/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// LedgerTests holds methods for each ledger route test.
type LedgerTests struct {
	app http.Handler
}

func TestLedger(t *testing.T) {
	gen := genesis.Default()
	gen.Difficulty = 1
	gen.DifficultyEvery = 100

	st, err := state.New(state.Config{
		Genesis: gen,
		Storage: memory.New(),
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %s", failed, err)
	}
	defer st.Shutdown()

	tests := LedgerTests{
		app: handlers.PublicMux(handlers.MuxConfig{
			Shutdown: make(chan os.Signal, 1),
			Log:      zap.NewNop().Sugar(),
			State:    st,
			Evts:     events.New("viewer:"),
			Legacy:   true,
		}),
	}

	t.Run("mine", tests.mine)
	t.Run("submit", tests.submit)
	t.Run("legacy", tests.legacy)
	t.Run("errors", tests.errors)
	t.Run("queries", tests.queries)
	t.Run("preflight", tests.preflight)
}

func (lt *LedgerTests) do(t *testing.T, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}

	w := httptest.NewRecorder()
	lt.app.ServeHTTP(w, r)

	return w
}

func (lt *LedgerTests) mine(t *testing.T) {
	t.Log("Given the need to mine a block through the api.")
	{
		w := lt.do(t, http.MethodPost, "/v1/mining/mine", `{"miner":"ALICE"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould receive a status code of 200 for the response : %v", failed, w.Code)
		}
		t.Logf("\t%s\tShould receive a status code of 200 for the response.", success)

		var resp struct {
			Block database.Block `json:"block"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("\t%s\tShould be able to unmarshal the response : %v", failed, err)
		}

		if resp.Block.Index != 1 || len(resp.Block.Transactions) != 2 {
			t.Fatalf("\t%s\tShould get block 1 with the reward, got %+v.", failed, resp.Block)
		}
		t.Logf("\t%s\tShould get block 1 with the reward.", success)
	}
}

func (lt *LedgerTests) submit(t *testing.T) {
	t.Log("Given the need to submit a transaction through the api.")
	{
		w := lt.do(t, http.MethodPost, "/v1/tx/submit", `{"from":"ALICE","to":"BOB","amount":10}`)
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould receive a status code of 200 for the response : %v", failed, w.Code)
		}
		t.Logf("\t%s\tShould receive a status code of 200 for the response.", success)

		w = lt.do(t, http.MethodGet, "/v1/tx/uncommitted/list", "")

		var txs []database.Tx
		if err := json.NewDecoder(w.Body).Decode(&txs); err != nil {
			t.Fatalf("\t%s\tShould be able to unmarshal the response : %v", failed, err)
		}

		if len(txs) != 1 || txs[0].ID == "" || txs[0].To != "BOB" {
			t.Fatalf("\t%s\tShould see the transaction in the mempool, got %+v.", failed, txs)
		}
		t.Logf("\t%s\tShould see the transaction in the mempool.", success)
	}
}

func (lt *LedgerTests) legacy(t *testing.T) {
	t.Log("Given the need to serve the original routes in coins.")
	{
		w := lt.do(t, http.MethodPost, "/mine", `{"miner":"MINER"}`)

		var mined struct {
			Success bool `json:"success"`
			Block   struct {
				Index        uint64 `json:"index"`
				PrevHash     string `json:"prevHash"`
				Transactions []struct {
					From   string  `json:"from"`
					To     string  `json:"to"`
					Amount float64 `json:"amount"`
				} `json:"transactions"`
			} `json:"block"`
		}
		if err := json.NewDecoder(w.Body).Decode(&mined); err != nil || !mined.Success {
			t.Fatalf("\t%s\tShould mine through the original route : %v", failed, err)
		}
		t.Logf("\t%s\tShould mine through the original route.", success)

		txs := mined.Block.Transactions
		if mined.Block.PrevHash == "" || len(txs) != 3 || txs[0].Amount != 0.1 || txs[1].To != "MINER" || txs[1].Amount != 0.99 || txs[2].Amount != 0.01 {
			t.Fatalf("\t%s\tShould get the block with prevHash and coin amounts, got %+v.", failed, mined.Block)
		}
		t.Logf("\t%s\tShould get the block with prevHash and coin amounts.", success)

		w = lt.do(t, http.MethodGet, "/balance/BOB", "")

		var bal struct {
			Balance float64 `json:"balance"`
		}
		if err := json.NewDecoder(w.Body).Decode(&bal); err != nil || bal.Balance != 0.1 {
			t.Fatalf("\t%s\tShould get the balance of BOB at 0.1, got %v : %v", failed, bal.Balance, err)
		}
		t.Logf("\t%s\tShould get the balance of BOB at 0.1.", success)

		w = lt.do(t, http.MethodGet, "/stats", "")

		var stats struct {
			Blocks     uint64  `json:"blocks"`
			Supply     float64 `json:"supply"`
			Difficulty uint    `json:"difficulty"`
		}
		if err := json.NewDecoder(w.Body).Decode(&stats); err != nil || stats.Blocks != 3 || stats.Supply != 2 {
			t.Fatalf("\t%s\tShould get 3 blocks and a supply of 2, got %+v : %v", failed, stats, err)
		}
		t.Logf("\t%s\tShould get 3 blocks and a supply of 2.", success)

		w = lt.do(t, http.MethodPost, "/transaction", `{"from":"ALICE","to":"CAROL","amount":0.5,"memo":"lunch"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould accept a fractional amount with extra fields, got %d : %s", failed, w.Code, w.Body)
		}

		w = lt.do(t, http.MethodGet, "/v1/tx/uncommitted/list", "")

		var pending []database.Tx
		if err := json.NewDecoder(w.Body).Decode(&pending); err != nil || len(pending) != 1 || pending[0].Amount != 50 {
			t.Fatalf("\t%s\tShould admit 0.5 coins as 50 units, got %+v : %v", failed, pending, err)
		}
		t.Logf("\t%s\tShould admit 0.5 coins as 50 units.", success)

		w = lt.do(t, http.MethodGet, "/chain", "")

		var chain []map[string]any
		if err := json.NewDecoder(w.Body).Decode(&chain); err != nil || len(chain) != 3 {
			t.Fatalf("\t%s\tShould get the chain, got %d : %v", failed, len(chain), err)
		}
		if chain[0]["prevHash"] != "0" || chain[2]["prevHash"] != chain[1]["hash"] {
			t.Fatalf("\t%s\tShould link the chain with prevHash, got %+v.", failed, chain[2])
		}
		t.Logf("\t%s\tShould link the chain with prevHash.", success)
	}
}

func (lt *LedgerTests) errors(t *testing.T) {
	type table struct {
		name   string
		method string
		path   string
		body   string
		status int
		field  string
		msg    string
	}

	tt := []table{
		{"funds", http.MethodPost, "/v1/tx/submit", `{"from":"NOBODY","to":"BOB","amount":10}`, http.StatusBadRequest, "", "insufficient funds"},
		{"amount", http.MethodPost, "/v1/tx/submit", `{"from":"ALICE","to":"BOB","amount":0}`, http.StatusBadRequest, "amount", ""},
		{"system", http.MethodPost, "/v1/tx/submit", `{"from":"SYSTEM","to":"EVE","amount":999999999999}`, http.StatusBadRequest, "from", ""},
		{"legacy system", http.MethodPost, "/transaction", `{"from":"SYSTEM","to":"EVE","amount":9999999999}`, http.StatusBadRequest, "from", ""},
		{"dust", http.MethodPost, "/transaction", `{"from":"ALICE","to":"BOB","amount":0.001}`, http.StatusBadRequest, "amount", ""},
		{"decode", http.MethodPost, "/transaction", `{"from":`, http.StatusBadRequest, "", ""},
		{"miner", http.MethodPost, "/v1/mining/mine", `{}`, http.StatusBadRequest, "", "missing miner"},
		{"empty mine", http.MethodPost, "/v1/mining/mine", "", http.StatusBadRequest, "", "missing miner"},
		{"legacy empty mine", http.MethodPost, "/mine", "", http.StatusBadRequest, "", "missing miner"},
		{"range", http.MethodGet, "/v1/blocks/list/2/1", "", http.StatusBadRequest, "", ""},
	}

	t.Log("Given the need to report errors to the client.")
	{
		for testID, tst := range tt {
			w := lt.do(t, tst.method, tst.path, tst.body)
			if w.Code != tst.status {
				t.Fatalf("\t%s\tTest %d:\tShould receive a status code of %d for %s, got %d.", failed, testID, tst.status, tst.name, w.Code)
			}

			var resp errs.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Error == "" {
				t.Fatalf("\t%s\tTest %d:\tShould get an error response for %s : %v", failed, testID, tst.name, err)
			}

			if tst.field != "" && resp.Fields[tst.field] == "" {
				t.Fatalf("\t%s\tTest %d:\tShould get the %s field error, got %v.", failed, testID, tst.field, resp.Fields)
			}

			if tst.msg != "" && !strings.Contains(resp.Error, tst.msg) {
				t.Fatalf("\t%s\tTest %d:\tShould get the %q error, got %q.", failed, testID, tst.msg, resp.Error)
			}
			t.Logf("\t%s\tTest %d:\tShould report the %s error.", success, testID, tst.name)
		}
	}
}

func (lt *LedgerTests) queries(t *testing.T) {
	t.Log("Given the need to query the ledger.")
	{
		w := lt.do(t, http.MethodGet, "/v1/blocks/list/1/latest", "")

		var blocks []database.Block
		if err := json.NewDecoder(w.Body).Decode(&blocks); err != nil || len(blocks) != 2 {
			t.Fatalf("\t%s\tShould get blocks 1 to latest, got %d : %v", failed, len(blocks), err)
		}
		t.Logf("\t%s\tShould get blocks 1 to latest.", success)

		w = lt.do(t, http.MethodGet, "/v1/blocks/account/BOB", "")
		blocks = nil
		if err := json.NewDecoder(w.Body).Decode(&blocks); err != nil || len(blocks) != 1 || blocks[0].Index != 2 {
			t.Fatalf("\t%s\tShould get the block holding the transfer : %v", failed, err)
		}
		t.Logf("\t%s\tShould get the block holding the transfer.", success)

		w = lt.do(t, http.MethodPost, "/v1/wallets/new", "")
		if w.Code != http.StatusCreated {
			t.Fatalf("\t%s\tShould receive a status code of 201 for a new wallet, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould receive a status code of 201 for a new wallet.", success)

		w = lt.do(t, http.MethodGet, "/v1/chain/verify", "")

		var verify struct {
			Valid bool `json:"valid"`
		}
		if err := json.NewDecoder(w.Body).Decode(&verify); err != nil || !verify.Valid {
			t.Fatalf("\t%s\tShould report a valid chain : %v", failed, err)
		}
		t.Logf("\t%s\tShould report a valid chain.", success)
	}
}

func (lt *LedgerTests) preflight(t *testing.T) {
	t.Log("Given the need to accept CORS preflight requests.")
	{
		w := lt.do(t, http.MethodOptions, "/v1/tx/submit", "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("\t%s\tShould receive a status code of 204, got %d.", failed, w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Fatalf("\t%s\tShould set the allowed origin.", failed)
		}
		t.Logf("\t%s\tShould accept the preflight request.", success)
	}
}
