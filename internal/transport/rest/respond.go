package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"velora-be/internal/cart"
	"velora-be/internal/catalog"
	"velora-be/internal/checkout"
	"velora-be/internal/logger"
	"velora-be/internal/order"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondDomainError maps known domain errors onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrVariantNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, order.ErrUnauthorized),
		errors.Is(err, checkout.ErrUnauthenticated),
		errors.Is(err, cart.ErrUserNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())

	case errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())

	case errors.Is(err, checkout.ErrMissingReference),
		errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())

	case errors.Is(err, checkout.ErrPaymentNotSuccessful),
		errors.Is(err, checkout.ErrInvalidMetadata):
		respondError(w, http.StatusUnprocessableEntity, "verification_failed", err.Error())

	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
