package payment

import (
	"time"

	"velora-be/internal/cart"
)

// StatusSuccess is the provider's transaction status for a completed
// charge. Anything else is treated as not paid.
const StatusSuccess = "success"

// Metadata is the opaque payload attached to a transaction at
// initialization and round-tripped back on verification. It carries
// everything needed to materialize the order, so the provider record is
// the source of truth at verify time.
type Metadata struct {
	UserID          uint            `json:"user_id"`
	Items           []cart.LineItem `json:"items"`
	ShippingAddress string          `json:"shipping_address"`
	PhoneNumber     string          `json:"phone_number"`
}

type InitializeRequest struct {
	Email    string
	Amount   int64 // minor units (kobo)
	Metadata Metadata
}

type InitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyData struct {
	Reference string     `json:"reference"`
	Status    string     `json:"status"`
	Amount    int64      `json:"amount"` // minor units
	Channel   string     `json:"channel"`
	PaidAt    *time.Time `json:"paid_at"`
	Metadata  Metadata   `json:"metadata"`
}
