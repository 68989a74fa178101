package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sofiacoin/node/foundation/web"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestHandle(t *testing.T) {
	t.Log("Given the need to route requests through the app.")
	{
		shutdown := make(chan os.Signal, 1)

		var order []string
		mw := func(name string) web.Middleware {
			return func(handler web.Handler) web.Handler {
				return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
					order = append(order, name)
					return handler(ctx, w, r)
				}
			}
		}

		app := web.NewApp(shutdown, mw("app"))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if web.GetTraceID(ctx) == "" {
				t.Errorf("\t%s\tShould have a trace id.", failed)
			}
			return web.Respond(ctx, w, map[string]string{"account": web.Param(r, "account")}, http.StatusOK)
		}
		app.Handle(http.MethodGet, "v1", "/balances/:account", h, mw("route"))

		fail := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return web.NewShutdownError("integrity issue")
		}
		app.Handle(http.MethodGet, "v1", "/fail", fail)

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/balances/ALICE", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould receive a 200, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould receive a 200.", success)

		var resp map[string]string
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp["account"] != "ALICE" {
			t.Fatalf("\t%s\tShould receive the route parameter: %v.", failed, err)
		}
		t.Logf("\t%s\tShould receive the route parameter.", success)

		if len(order) != 2 || order[0] != "app" || order[1] != "route" {
			t.Fatalf("\t%s\tShould run the app middleware first, got %v.", failed, order)
		}
		t.Logf("\t%s\tShould run the app middleware first.", success)

		app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/fail", nil))

		select {
		case <-shutdown:
			t.Logf("\t%s\tShould signal shutdown on a shutdown error.", success)
		default:
			t.Fatalf("\t%s\tShould signal shutdown on a shutdown error.", failed)
		}
	}
}
