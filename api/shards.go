package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/kilianp07/cabs/core/dispatch"
)

type rideRequest struct {
	CustomerID  string `json:"customer_id"`
	Source      int    `json:"source"`
	Destination int    `json:"destination"`
}

func (h *handlers) shard(n string) (*dispatch.Shard, error) {
	if n == "any" {
		return h.sys.RandomShard(), nil
	}
	i, err := strconv.Atoi(n)
	if err != nil {
		return nil, fmt.Errorf("%w: shard %q", errBadRequest, n)
	}
	return h.sys.Shard(i)
}

// requestRide blocks until the shard answers. Invalid coordinates and
// unknown customers yield the rejection sentinel, not an HTTP error.
func (h *handlers) requestRide(w http.ResponseWriter, r *http.Request) {
	sh, err := h.shard(r.PathValue("n"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req rideRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	resp, err := sh.Ride(r.Context(), req.CustomerID, req.Source, req.Destination)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}
