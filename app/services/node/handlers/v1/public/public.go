// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sofiacoin/node/business/sys/validate"
	"github.com/sofiacoin/node/business/web/errs"
	"github.com/sofiacoin/node/foundation/blockchain/database"
	"github.com/sofiacoin/node/foundation/blockchain/state"
	"github.com/sofiacoin/node/foundation/events"
	"github.com/sofiacoin/node/foundation/web"
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

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the ledger.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting for events from the ledger or ticker.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
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

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tx, err := h.submit(ctx, ntx)
	if err != nil {
		return err
	}

	resp := submitted{
		Status: "transaction added to mempool",
		Tx:     tx,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.QueryMempool(), http.StatusOK)
}

// MineBlock mines the next block for the miner in the request. The search is
// abandoned if the client goes away. An empty body is reported as a missing
// miner.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req MineRequest
	if err := web.Decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	block, rejected, err := h.mine(ctx, req)
	if err != nil {
		return err
	}

	resp := mined{
		Block: block,
	}
	for _, txe := range rejected {
		resp.Rejected = append(resp.Rejected, rejectedTx{Tx: txe.Tx, Error: txe.Err.Error()})
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns the full chain starting with the genesis block.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks, err := h.State.QueryChain()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlocksByNumber returns the blocks in the specified range. Use "latest" for
// the latest block.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := blockNumber(web.Param(r, "from"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	to, err := blockNumber(web.Param(r, "to"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from is greater than to"), http.StatusBadRequest)
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlocksByAccount returns the blocks holding a transaction for the account.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := database.Address(web.Param(r, "account"))

	blocks, err := h.State.QueryBlocksByAccount(address)
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Balance returns the balance for the account, zero for an unknown account.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := database.Address(web.Param(r, "account"))
	return web.Respond(ctx, w, h.State.QueryBalance(address), http.StatusOK)
}

// Accounts returns the current balances for all accounts.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	stats := h.State.QueryStats()

	resp := accounts{
		LatestBlock: stats.LatestHash,
		Uncommitted: stats.Mempool,
		Accounts:    h.State.QueryBalances(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Stats returns the chain and miner statistics.
func (h Handlers) Stats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.QueryStats(), http.StatusOK)
}

// NewWallet generates a wallet registered on the ledger.
func (h Handlers) NewWallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	wallet := h.State.NewWallet()

	h.Log.Infow("new wallet", "traceid", web.GetTraceID(ctx), "address", wallet.Address)

	return web.Respond(ctx, w, wallet, http.StatusCreated)
}

// VerifyChain checks the integrity of the chain.
func (h Handlers) VerifyChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := verified{
		Valid:  true,
		Blocks: h.State.QueryStats().Blocks,
	}

	if err := h.State.ValidateChain(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================
// These handlers serve the routes of the original service.

// LegacySubmit adds a new transaction to the mempool.
func (h Handlers) LegacySubmit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ltx legacyTx
	if err := decodeLegacy(r, &ltx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if _, err := h.submit(ctx, ltx.toNewTx()); err != nil {
		return err
	}

	return web.Respond(ctx, w, legacySubmitted{Success: true}, http.StatusOK)
}

// LegacyMine mines the next block for the miner in the request.
func (h Handlers) LegacyMine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req MineRequest
	if err := decodeLegacy(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	block, _, err := h.mine(ctx, req)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, legacyMined{Success: true, Block: toLegacyBlock(block)}, http.StatusOK)
}

// LegacyChain returns the full chain starting with the genesis block.
func (h Handlers) LegacyChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks, err := h.State.QueryChain()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, toLegacyBlocks(blocks), http.StatusOK)
}

// LegacyBalance returns the balance for the wallet.
func (h Handlers) LegacyBalance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := database.Address(web.Param(r, "wallet"))
	balance := h.State.QueryBalance(address).Balance

	return web.Respond(ctx, w, legacyBalance{Balance: toCoins(balance)}, http.StatusOK)
}

// LegacyStats returns the block count, supply, and difficulty.
func (h Handlers) LegacyStats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toLegacyStats(h.State.QueryStats()), http.StatusOK)
}

// =============================================================================

func (h Handlers) submit(ctx context.Context, ntx NewTx) (database.Tx, error) {
	if err := validate.Check(ntx); err != nil {
		return database.Tx{}, err
	}

	tx, err := h.State.SubmitTransaction(ntx.toDBTx())
	if err != nil {
		return database.Tx{}, errs.FromLedger(err)
	}

	h.Log.Infow("submit tx", "traceid", web.GetTraceID(ctx), "id", tx.ID, "from", tx.From, "to", tx.To, "amount", tx.Amount)

	return tx, nil
}

func (h Handlers) mine(ctx context.Context, req MineRequest) (database.Block, database.TxErrors, error) {
	block, err := h.State.MineNewBlock(ctx, database.Address(req.Miner))

	var rejected database.TxErrors
	switch {
	case err == nil:
	case errors.As(err, &rejected):
		h.Log.Infow("mine block", "traceid", web.GetTraceID(ctx), "status", "transactions rejected", "rejected", rejected.Error())
	default:
		return database.Block{}, nil, errs.FromLedger(err)
	}

	h.Log.Infow("mine block", "traceid", web.GetTraceID(ctx), "miner", req.Miner, "index", block.Index, "hash", block.Hash)

	return block, rejected, nil
}

// decodeLegacy reads the body the way the original service did. Unknown
// fields are ignored and an empty body is an empty request.
func decodeLegacy(r *http.Request, val any) error {
	if err := json.NewDecoder(r.Body).Decode(val); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	return nil
}

// blockNumber parses a block number from the route.
func blockNumber(s string) (uint64, error) {
	if s == "latest" {
		return state.QueryLatest, nil
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New("block number must be a positive integer or latest")
	}

	return n, nil
}
