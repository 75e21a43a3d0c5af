package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"velora-be/internal/checkout"
	"velora-be/internal/logger"
	"velora-be/internal/payment"

	"go.uber.org/zap"
)

const provider = "PAYSTACK"

// Event is the JSON Paystack pushes.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

type EventData struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
}

// Handler receives provider pushes and drives the same verification
// path the redirect flow uses.
type Handler struct {
	checkoutSvc checkout.Service
	gateway     payment.Gateway
	repo        payment.Repository
}

func NewHandler(checkoutSvc checkout.Service, gateway payment.Gateway, repo payment.Repository) *Handler {
	return &Handler{
		checkoutSvc: checkoutSvc,
		gateway:     gateway,
		repo:        repo,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("handler", "paystack_webhook"))

	// 1. Read the raw body; the signature covers the exact bytes
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// 2. Reject anything not signed with our secret
	if err := h.gateway.VerifySignature(r, body); err != nil {
		log.Warn("webhook signature rejected")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	log = log.With(
		zap.String("event", event.Event),
		zap.String("reference", event.Data.Reference),
	)

	// Only successful charges materialize orders; acknowledge the rest
	// so the provider stops retrying.
	if event.Event != "charge.success" {
		log.Debug("ignoring webhook event")
		w.WriteHeader(http.StatusOK)
		return
	}

	// 3. Record the event. Only a delivery that already completed is
	// dropped; a redelivery after a failed attempt runs again.
	eventID := strconv.FormatInt(event.Data.ID, 10)
	webhookID, alreadyProcessed, err := h.repo.SaveWebhookEvent(
		ctx, provider, eventID, event.Event, event.Data.Reference, body, true,
	)
	if err != nil {
		log.Error("failed to record webhook event", zap.Error(err))
		http.Error(w, "failed to record event", http.StatusInternalServerError)
		return
	}
	if alreadyProcessed {
		log.Info("webhook event already processed")
		w.WriteHeader(http.StatusOK)
		return
	}

	// 4. Same commit point as the redirect flow
	if _, err := h.checkoutSvc.VerifyPayment(ctx, event.Data.Reference); err != nil {
		log.Error("webhook verification failed", zap.Error(err))
		if markErr := h.repo.MarkWebhookFailed(ctx, webhookID, err.Error()); markErr != nil {
			log.Error("failed to mark webhook failed", zap.Error(markErr))
		}
		http.Error(w, "failed to process event", http.StatusInternalServerError)
		return
	}

	if err := h.repo.MarkWebhookProcessed(ctx, webhookID); err != nil {
		log.Error("failed to mark webhook processed", zap.Error(err))
	}

	w.WriteHeader(http.StatusOK)
}
