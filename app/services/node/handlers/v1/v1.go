// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sofiacoin/node/app/services/node/handlers/v1/public"
	"github.com/sofiacoin/node/foundation/blockchain/state"
	"github.com/sofiacoin/node/foundation/events"
	"github.com/sofiacoin/node/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := newPublic(cfg)

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/tx/uncommitted/list", pbl.Mempool)
	app.Handle(http.MethodPost, version, "/mining/mine", pbl.MineBlock)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/list/:from/:to", pbl.BlocksByNumber)
	app.Handle(http.MethodGet, version, "/blocks/account/:account", pbl.BlocksByAccount)
	app.Handle(http.MethodGet, version, "/balances/:account", pbl.Balance)
	app.Handle(http.MethodGet, version, "/accounts/list", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/stats", pbl.Stats)
	app.Handle(http.MethodPost, version, "/wallets/new", pbl.NewWallet)
	app.Handle(http.MethodGet, version, "/chain/verify", pbl.VerifyChain)
}

// LegacyRoutes binds the unversioned routes existing clients call.
func LegacyRoutes(app *web.App, cfg Config) {
	pbl := newPublic(cfg)

	app.Handle(http.MethodPost, "", "/transaction", pbl.LegacySubmit)
	app.Handle(http.MethodPost, "", "/mine", pbl.LegacyMine)
	app.Handle(http.MethodGet, "", "/chain", pbl.LegacyChain)
	app.Handle(http.MethodGet, "", "/balance/:wallet", pbl.LegacyBalance)
	app.Handle(http.MethodGet, "", "/stats", pbl.LegacyStats)
}

func newPublic(cfg Config) public.Handlers {
	return public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}
}
