package cart

import (
	"context"
	"fmt"
	"sync"
)

// Store is the authoritative view of what a shopper intends to buy,
// independent of the catalog's live state. Mutations are serialized,
// recompute the derived totals, and persist the whole state through the
// Repository. The in-memory state stays authoritative even when a save
// fails; the error is returned so callers can observe it.
//
// Invalid product/variant IDs are no-ops, not errors.
type Store struct {
	mu     sync.Mutex
	userID uint
	repo   Repository
	state  State
}

// NewStore loads the persisted state for the user, starting empty when
// nothing was saved yet.
func NewStore(ctx context.Context, userID uint, repo Repository) (*Store, error) {
	state, err := repo.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if state == nil {
		s := emptyState()
		state = &s
	}

	return &Store{
		userID: userID,
		repo:   repo,
		state:  *state,
	}, nil
}

// State returns a copy of the current cart state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// AddItem appends a new line for (product, variant) or, when the pair is
// already in the cart, bumps that line's quantity by the requested amount.
// There is never more than one line per (productID, variantID).
func (s *Store) AddItem(ctx context.Context, productID string, product ProductSnapshot, variant VariantSnapshot, quantity int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		return s.snapshot(), nil
	}

	if i := s.findLine(productID, variant.ID); i >= 0 {
		return s.setQuantity(ctx, i, s.state.Items[i].Quantity+quantity)
	}

	s.state.Items = append(s.state.Items, LineItem{
		ProductID: productID,
		VariantID: variant.ID,
		Quantity:  quantity,
		Variant:   variant,
		Product:   product,
	})
	s.recompute()
	return s.persist(ctx)
}

// RemoveItem drops the matching line. Removing an absent line returns the
// state unchanged.
func (s *Store) RemoveItem(ctx context.Context, productID, variantID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLine(productID, variantID)
	if i < 0 {
		return s.snapshot(), nil
	}

	s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
	s.recompute()
	return s.persist(ctx)
}

// UpdateQuantity replaces the line's quantity. Anything below 1 removes
// the line entirely.
func (s *Store) UpdateQuantity(ctx context.Context, productID, variantID string, quantity int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLine(productID, variantID)
	if i < 0 {
		return s.snapshot(), nil
	}

	if quantity < 1 {
		s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
		s.recompute()
		return s.persist(ctx)
	}

	return s.setQuantity(ctx, i, quantity)
}

// SwitchVariant swaps a line onto another variant of the same product,
// looked up inside the line's own product snapshot. Quantity and product
// are untouched. Unknown target variants are a no-op, as is switching
// onto a variant that already has its own line.
func (s *Store) SwitchVariant(ctx context.Context, productID, currentVariantID, newVariantID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLine(productID, currentVariantID)
	if i < 0 {
		return s.snapshot(), nil
	}
	if s.findLine(productID, newVariantID) >= 0 {
		return s.snapshot(), nil
	}

	var target *VariantSnapshot
	for _, v := range s.state.Items[i].Product.Variants {
		if v.ID == newVariantID {
			target = &v
			break
		}
	}
	if target == nil {
		return s.snapshot(), nil
	}

	s.state.Items[i].VariantID = target.ID
	s.state.Items[i].Variant = *target
	s.recompute()
	return s.persist(ctx)
}

// Clear resets to the empty cart and removes the persisted copy.
func (s *Store) Clear(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = emptyState()
	if err := s.repo.Clear(ctx, s.userID); err != nil {
		return s.snapshot(), fmt.Errorf("clear cart: %w", err)
	}
	return s.snapshot(), nil
}

func (s *Store) findLine(productID, variantID string) int {
	for i, it := range s.state.Items {
		if it.ProductID == productID && it.VariantID == variantID {
			return i
		}
	}
	return -1
}

func (s *Store) setQuantity(ctx context.Context, i, quantity int) (State, error) {
	s.state.Items[i].Quantity = quantity
	s.recompute()
	return s.persist(ctx)
}

func (s *Store) recompute() {
	count := 0
	subtotal := 0.0
	for _, it := range s.state.Items {
		count += it.Quantity
		subtotal += it.Variant.Price * float64(it.Quantity)
	}
	s.state.ItemCount = count
	s.state.Subtotal = subtotal
	s.state.Total = subtotal
}

func (s *Store) persist(ctx context.Context) (State, error) {
	state := s.snapshot()
	if err := s.repo.Save(ctx, s.userID, state); err != nil {
		return state, fmt.Errorf("save cart: %w", err)
	}
	return state, nil
}

func (s *Store) snapshot() State {
	out := s.state
	out.Items = make([]LineItem, len(s.state.Items))
	copy(out.Items, s.state.Items)
	return out
}
