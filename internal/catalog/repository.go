package catalog

import (
	"context"
	"database/sql"
	"errors"

	"velora-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var ErrProductNotFound = errors.New("product not found")
var ErrVariantNotFound = errors.New("variant not found")

// Repository is the read-side catalog lookup used by the cart layer to
// build add-time snapshots. Catalog writes live elsewhere.
type Repository interface {
	GetProductByID(ctx context.Context, productID string) (*Product, error)
	GetVariantByID(ctx context.Context, variantID string) (*Variant, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProductByID(ctx context.Context, productID string) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProductByID"),
		zap.String("product_id", productID),
	)

	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, images
		FROM products
		WHERE id = $1
	`, productID).Scan(&p.ID, &p.Name, pq.Array(&p.Images))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		log.Error("failed to query product", zap.Error(err))
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, size, price, stock
		FROM variants
		WHERE product_id = $1
		ORDER BY size
	`, productID)
	if err != nil {
		log.Error("failed to query variants", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.Price, &v.Stock); err != nil {
			log.Error("failed to scan variant row", zap.Error(err))
			return nil, err
		}
		p.Variants = append(p.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetVariantByID(ctx context.Context, variantID string) (*Variant, error) {
	var v Variant
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_id, size, price, stock
		FROM variants
		WHERE id = $1
	`, variantID).Scan(&v.ID, &v.ProductID, &v.Size, &v.Price, &v.Stock)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, err
	}

	return &v, nil
}
