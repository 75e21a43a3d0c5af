package catalog

type Variant struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Size      string  `json:"size"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

type Product struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Images   []string  `json:"images"`
	Variants []Variant `json:"variants"`
}
