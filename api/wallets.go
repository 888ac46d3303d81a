package api

import "net/http"

type amountRequest struct {
	Amount *int `json:"amount"`
}

type balanceResponse struct {
	CustomerID string `json:"customer_id"`
	Balance    int    `json:"balance"`
}

func (h *handlers) walletBalance(w http.ResponseWriter, r *http.Request) {
	wl, err := h.sys.Wallet(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	bal, err := wl.Balance(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, balanceResponse{CustomerID: wl.ID(), Balance: bal})
}

func (h *handlers) walletAdd(w http.ResponseWriter, r *http.Request) {
	wl, err := h.sys.Wallet(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	amount, ok := h.amount(w, r)
	if !ok {
		return
	}
	wl.Add(amount)
	w.WriteHeader(http.StatusAccepted)
}

// walletDeduct answers with the new balance, or -1 when the debit is refused.
func (h *handlers) walletDeduct(w http.ResponseWriter, r *http.Request) {
	wl, err := h.sys.Wallet(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	amount, ok := h.amount(w, r)
	if !ok {
		return
	}
	bal, err := wl.DeductBalance(r.Context(), amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, balanceResponse{CustomerID: wl.ID(), Balance: bal})
}

func (h *handlers) walletReset(w http.ResponseWriter, r *http.Request) {
	wl, err := h.sys.Wallet(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	bal, err := wl.Reset(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, balanceResponse{CustomerID: wl.ID(), Balance: bal})
}

func (h *handlers) amount(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req amountRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return 0, false
	}
	if req.Amount == nil {
		http.Error(w, "amount is required", http.StatusBadRequest)
		return 0, false
	}
	return *req.Amount, true
}
