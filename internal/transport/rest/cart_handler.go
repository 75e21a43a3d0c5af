package rest

import (
	"encoding/json"
	"net/http"

	"velora-be/internal/cart"
	"velora-be/internal/catalog"
	"velora-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartRepo    cart.Repository
	catalogRepo catalog.Repository
}

func NewCartHandler(cartRepo cart.Repository, catalogRepo catalog.Repository) *CartHandler {
	return &CartHandler{
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type SwitchVariantRequestDTO struct {
	NewVariantID string `json:"new_variant_id"`
}

// store loads the caller's cart into a state container for this request.
func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		respondDomainError(w, cart.ErrUserNotAuthenticated)
		return nil, false
	}

	s, err := cart.NewStore(r.Context(), userID, h.cartRepo)
	if err != nil {
		respondDomainError(w, err)
		return nil, false
	}
	return s, true
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.State())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" || req.VariantID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "product_id and variant_id are required")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// Snapshot is taken at add time; later catalog edits do not touch
	// lines already in the cart.
	product, err := h.catalogRepo.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	variant, err := h.catalogRepo.GetVariantByID(r.Context(), req.VariantID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	s, ok := h.store(w, r)
	if !ok {
		return
	}

	state, err := s.AddItem(r.Context(), req.ProductID, cart.SnapshotProduct(product), cart.SnapshotVariant(*variant), req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, state)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	variantID := chi.URLParam(r, "variant_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	s, ok := h.store(w, r)
	if !ok {
		return
	}

	state, err := s.UpdateQuantity(r.Context(), productID, variantID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	variantID := chi.URLParam(r, "variant_id")

	s, ok := h.store(w, r)
	if !ok {
		return
	}

	state, err := s.RemoveItem(r.Context(), productID, variantID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (h *CartHandler) SwitchVariant(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	variantID := chi.URLParam(r, "variant_id")

	var req SwitchVariantRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.NewVariantID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "new_variant_id is required")
		return
	}

	s, ok := h.store(w, r)
	if !ok {
		return
	}

	state, err := s.SwitchVariant(r.Context(), productID, variantID, req.NewVariantID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}

	state, err := s.Clear(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}
