package rest

import (
	"encoding/json"
	"net/http"

	"velora-be/internal/checkout"
)

type CheckoutHandler struct {
	svc checkout.Service
}

func NewCheckoutHandler(svc checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Quote(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, q)
}

func (h *CheckoutHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var input checkout.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	res, err := h.svc.InitiatePayment(r.Context(), input)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

// Verify handles the provider redirect. The reference arrives in the
// query string; when the provider sends the user back without one, the
// client routes back to the cart, so an empty reference is a plain 400.
func (h *CheckoutHandler) Verify(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		respondError(w, http.StatusBadRequest, "missing_reference", "reference query parameter is required")
		return
	}

	o, err := h.svc.VerifyPayment(r.Context(), reference)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}
