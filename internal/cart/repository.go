package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"velora-be/internal/logger"

	"go.uber.org/zap"
)

// Repository persists whole cart states keyed by user. The Store calls
// Save deterministically after every mutation so persistence failures
// surface instead of being swallowed.
type Repository interface {
	Load(ctx context.Context, userID uint) (*State, error)
	Save(ctx context.Context, userID uint, state State) error
	Clear(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Load(ctx context.Context, userID uint) (*State, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT state
		FROM carts
		WHERE user_id = $1
	`, userID).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadCart, err)
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadCart, err)
	}

	return &state, nil
}

func (r *repository) Save(ctx context.Context, userID uint, state State) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Save"),
		zap.Uint("user_id", userID),
		zap.Int("item_count", state.ItemCount),
	)

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, state, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
	`, userID, raw)
	if err != nil {
		log.Error("failed to save cart state", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}

	log.Debug("cart state saved")
	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedClearCart, err)
	}
	return nil
}
