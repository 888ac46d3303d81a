package api

import "net/http"

type signInRequest struct {
	Position *int `json:"position"`
}

type rideEndedRequest struct {
	RideID *int `json:"ride_id"`
}

type resetResponse struct {
	RidesGiven int `json:"rides_given"`
}

func (h *handlers) cabStatus(w http.ResponseWriter, r *http.Request) {
	c, err := h.sys.Cab(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	st, err := c.Status(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

func (h *handlers) cabSignIn(w http.ResponseWriter, r *http.Request) {
	c, err := h.sys.Cab(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req signInRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Position == nil {
		http.Error(w, "position is required", http.StatusBadRequest)
		return
	}
	c.SignIn(*req.Position)
	w.WriteHeader(http.StatusAccepted)
}

func (h *handlers) cabSignOut(w http.ResponseWriter, r *http.Request) {
	c, err := h.sys.Cab(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	c.SignOut()
	w.WriteHeader(http.StatusAccepted)
}

func (h *handlers) cabRideEnded(w http.ResponseWriter, r *http.Request) {
	c, err := h.sys.Cab(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req rideEndedRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.RideID == nil {
		http.Error(w, "ride_id is required", http.StatusBadRequest)
		return
	}
	c.RideEnded(*req.RideID)
	w.WriteHeader(http.StatusAccepted)
}

func (h *handlers) cabReset(w http.ResponseWriter, r *http.Request) {
	c, err := h.sys.Cab(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	n, err := c.Reset(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resetResponse{RidesGiven: n})
}
