package cart

import "velora-be/internal/catalog"

// SnapshotProduct freezes a catalog product into the shape stored on a
// cart line. All variants are kept so the shopper can switch size later
// without another lookup.
func SnapshotProduct(p *catalog.Product) ProductSnapshot {
	variants := make([]VariantSnapshot, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, SnapshotVariant(v))
	}
	return ProductSnapshot{
		Name:     p.Name,
		Images:   append([]string(nil), p.Images...),
		Variants: variants,
	}
}

func SnapshotVariant(v catalog.Variant) VariantSnapshot {
	return VariantSnapshot{
		ID:    v.ID,
		Size:  v.Size,
		Price: v.Price,
		Stock: v.Stock,
	}
}
