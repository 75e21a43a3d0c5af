package order

import "time"

type Order struct {
	ID               uint
	OrderNumber      string
	UserID           uint
	Status           Status
	TotalAmount      float64
	ShippingAddress  string
	PhoneNumber      string
	PaymentReference string
	TrackingNumber   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []OrderItem
}

// OrderItem is a snapshot taken at materialization time. Catalog edits
// after the fact must not alter historical orders, so product name,
// image, size and price are copied rather than joined.
type OrderItem struct {
	ID           uint
	OrderID      uint
	ProductID    string
	VariantID    string
	Quantity     int
	Price        float64
	Size         string
	ProductName  string
	ProductImage string
}

// Filter narrows order listings. Nil fields are ignored.
type Filter struct {
	Status   *Status
	Search   *string
	DateFrom *time.Time
	DateTo   *time.Time
}

type SortField string

const (
	SortFieldCreatedAt SortField = "CREATED_AT"
	SortFieldTotal     SortField = "TOTAL"
)

type Sort struct {
	Field     SortField
	Direction string // "ASC" or "DESC"
}
