package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"velora-be/internal/order"
	"velora-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

type SetTrackingRequestDTO struct {
	TrackingNumber string `json:"tracking_number"`
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter order.Filter
	hasFilter := false

	if s := q.Get("status"); s != "" {
		status := order.Status(s)
		filter.Status = &status
		hasFilter = true
	}
	if s := q.Get("search"); s != "" {
		filter.Search = &s
		hasFilter = true
	}
	if s := q.Get("from"); s != "" {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			filter.DateFrom = &ts
			hasFilter = true
		}
	}
	if s := q.Get("to"); s != "" {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			filter.DateTo = &ts
			hasFilter = true
		}
	}

	var sort *order.Sort
	if f := q.Get("sort"); f != "" {
		sort = &order.Sort{
			Field:     order.SortField(f),
			Direction: q.Get("dir"),
		}
	}

	limit := parseInt32(q.Get("limit"), 20)
	page := parseInt32(q.Get("page"), 1)

	var fp *order.Filter
	if hasFilter {
		fp = &filter
	}

	orders, err := h.svc.GetOrders(r.Context(), fp, sort, limit, page)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.GetOrderDetail(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

// UpdateStatus is admin only; the workflow table decides what moves are
// legal, this handler just guards the door.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !utils.IsAdmin(r.Context()) {
		respondError(w, http.StatusForbidden, "forbidden", "admin access required")
		return
	}

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), orderID, order.Status(req.Status))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) SetTracking(w http.ResponseWriter, r *http.Request) {
	if !utils.IsAdmin(r.Context()) {
		respondError(w, http.StatusForbidden, "forbidden", "admin access required")
		return
	}

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req SetTrackingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.TrackingNumber == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "tracking_number is required")
		return
	}

	o, err := h.svc.SetTracking(r.Context(), orderID, req.TrackingNumber)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "order_id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func parseInt32(s string, fallback int32) int32 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil || v <= 0 {
		return fallback
	}
	return int32(v)
}
