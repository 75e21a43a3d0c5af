package cart

// VariantSnapshot is the variant as it looked when the shopper added it.
// Price and stock may drift from catalog truth afterwards; that is intended.
type VariantSnapshot struct {
	ID    string  `json:"id"`
	Size  string  `json:"size"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// ProductSnapshot keeps every variant of the product so a shopper can
// switch size without a catalog refetch.
type ProductSnapshot struct {
	Name     string            `json:"name"`
	Images   []string          `json:"images"`
	Variants []VariantSnapshot `json:"variants"`
}

type LineItem struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Variant   VariantSnapshot `json:"variant"`
	Product   ProductSnapshot `json:"product"`
}

// State is the full cart: items plus derived totals. Total equals
// Subtotal here; shipping is computed at checkout time, never stored.
type State struct {
	Items     []LineItem `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  float64    `json:"subtotal"`
	Total     float64    `json:"total"`
}

func emptyState() State {
	return State{Items: []LineItem{}}
}
