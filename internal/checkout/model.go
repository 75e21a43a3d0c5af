package checkout

import "velora-be/internal/cart"

// CheckoutInput is what the client submits to start payment. The user
// identity is never taken from here; it comes from the request context.
type CheckoutInput struct {
	Amount          float64         `json:"amount"`
	Items           []cart.LineItem `json:"items"`
	ShippingAddress string          `json:"shippingAddress"`
	PhoneNumber     string          `json:"phoneNumber"`
}

// InitiateResult carries the redirect target for the hosted payment
// page plus the provider reference the client hands back on return.
type InitiateResult struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}
