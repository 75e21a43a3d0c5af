// Package pricing holds the totals calculator shared by the cart view
// and the checkout flow. Both sides must run the identical rules or the
// displayed total drifts from the charged one.
package pricing

import (
	"math"

	"velora-be/internal/cart"
)

// Schedule is the shipping rule applied at checkout time. Subtotals
// strictly above the threshold ship free; everything else pays the flat
// fee.
type Schedule struct {
	FreeShippingThreshold float64
	FlatShippingFee       float64
}

// Quote is the checkout-time price breakdown. The cart itself never
// stores shipping.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Subtotal sums unit price times quantity across all lines.
func Subtotal(items []cart.LineItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Variant.Price * float64(it.Quantity)
	}
	return total
}

// ItemCount sums the quantities across all lines.
func ItemCount(items []cart.LineItem) int {
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return count
}

// QuoteFor derives the full checkout breakdown for the given lines.
func QuoteFor(items []cart.LineItem, s Schedule) Quote {
	subtotal := Subtotal(items)

	shipping := s.FlatShippingFee
	if subtotal > s.FreeShippingThreshold {
		shipping = 0
	}

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}

// ToMinor converts a major-unit amount to the provider's minor units.
func ToMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinor converts a provider minor-unit amount back to major units.
func FromMinor(amount int64) float64 {
	return float64(amount) / 100
}
