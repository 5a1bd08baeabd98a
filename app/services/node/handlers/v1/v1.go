// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/app/services/node/handlers/v1/public"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/events"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/state"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/web"
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
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)

	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/chain", pbl.Chain)
	app.Handle(http.MethodGet, version, "/chain/:height", pbl.BlockByHeight)
	app.Handle(http.MethodGet, version, "/chain/:height/tx/:index/hash", pbl.TransactionHash)
	app.Handle(http.MethodGet, version, "/mempool", pbl.Mempool)

	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodPost, version, "/produce/:count", pbl.ProduceBlocks)
	app.Handle(http.MethodPost, version, "/produce/cancel", pbl.CancelProduce)

	app.Handle(http.MethodGet, version, "/proof/:height/:tx", pbl.GenerateProof)
	app.Handle(http.MethodPost, version, "/proof/verify", pbl.VerifyProof)
}
