// Package api exposes the entity operations over HTTP for tests, scripts and
// the simulator.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/cabs/app"
	"github.com/kilianp07/cabs/core/cab"
	"github.com/kilianp07/cabs/core/dispatch"
	"github.com/kilianp07/cabs/core/wallet"
	"github.com/kilianp07/cabs/infra/logger"
)

// System is what the handlers need to resolve ids.
type System interface {
	Cab(id string) (*cab.Cab, error)
	Wallet(custID string) (*wallet.Wallet, error)
	Shard(i int) (*dispatch.Shard, error)
	RandomShard() *dispatch.Shard
}

// NewRouter returns the handler serving every /api route.
func NewRouter(sys System) http.Handler {
	h := &handlers{sys: sys, log: logger.New("api")}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cabs/{id}", h.cabStatus)
	mux.HandleFunc("POST /api/cabs/{id}/sign-in", h.cabSignIn)
	mux.HandleFunc("POST /api/cabs/{id}/sign-out", h.cabSignOut)
	mux.HandleFunc("POST /api/cabs/{id}/ride-ended", h.cabRideEnded)
	mux.HandleFunc("POST /api/cabs/{id}/reset", h.cabReset)
	mux.HandleFunc("POST /api/shards/{n}/rides", h.requestRide)
	mux.HandleFunc("GET /api/wallets/{id}", h.walletBalance)
	mux.HandleFunc("POST /api/wallets/{id}/add", h.walletAdd)
	mux.HandleFunc("POST /api/wallets/{id}/deduct", h.walletDeduct)
	mux.HandleFunc("POST /api/wallets/{id}/reset", h.walletReset)
	return mux
}

type handlers struct {
	sys System
	log logger.Logger
}

func (h *handlers) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warnf("encode response: %v", err)
	}
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	var code int
	switch {
	case errors.Is(err, app.ErrUnknownCab), errors.Is(err, app.ErrUnknownWallet), errors.Is(err, app.ErrUnknownShard):
		code = http.StatusNotFound
	case errors.Is(err, errBadRequest):
		code = http.StatusBadRequest
	default:
		h.log.Errorf("request failed: %v", err)
		code = http.StatusServiceUnavailable
	}
	http.Error(w, err.Error(), code)
}

var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}
