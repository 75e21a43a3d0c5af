package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_SaveWebhookEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	provider := "PAYSTACK"
	eventID := "evt-1"
	eventType := "charge.success"
	reference := "ref-001"
	payload := []byte(`{}`)
	valid := true

	t.Run("FirstDelivery", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO payment_webhooks`).
			WithArgs(provider, eventType, eventID, reference, valid, payload).
			WillReturnRows(sqlmock.NewRows([]string{"id", "processed"}).AddRow(10, false))

		id, processed, err := repo.SaveWebhookEvent(ctx, provider, eventID, eventType, reference, payload, valid)
		assert.NoError(t, err)
		assert.False(t, processed)
		assert.Equal(t, int64(10), id)
	})

	t.Run("RedeliveryAfterSuccess", func(t *testing.T) {
		// ON CONFLICT DO UPDATE hands back the stored row; processed_at
		// is set, so the event must not run again.
		mock.ExpectQuery(`INSERT INTO payment_webhooks`).
			WithArgs(provider, eventType, eventID, reference, valid, payload).
			WillReturnRows(sqlmock.NewRows([]string{"id", "processed"}).AddRow(10, true))

		id, processed, err := repo.SaveWebhookEvent(ctx, provider, eventID, eventType, reference, payload, valid)
		assert.NoError(t, err)
		assert.True(t, processed)
		assert.Equal(t, int64(10), id)
	})

	t.Run("RedeliveryAfterFailure", func(t *testing.T) {
		// The stored row exists but processed_at is null; the caller
		// gets another attempt at the same webhook row.
		mock.ExpectQuery(`INSERT INTO payment_webhooks`).
			WithArgs(provider, eventType, eventID, reference, valid, payload).
			WillReturnRows(sqlmock.NewRows([]string{"id", "processed"}).AddRow(10, false))

		id, processed, err := repo.SaveWebhookEvent(ctx, provider, eventID, eventType, reference, payload, valid)
		assert.NoError(t, err)
		assert.False(t, processed)
		assert.Equal(t, int64(10), id)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO payment_webhooks`).
			WillReturnError(errors.New("db error"))

		_, _, err := repo.SaveWebhookEvent(ctx, provider, eventID, eventType, reference, payload, valid)
		assert.Error(t, err)
	})
}

func TestRepository_WebhookUpdates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	id := int64(1)

	t.Run("MarkProcessed", func(t *testing.T) {
		mock.ExpectExec(`UPDATE payment_webhooks SET processed_at = now\(\) WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkWebhookProcessed(ctx, id)
		assert.NoError(t, err)
	})

	t.Run("MarkProcessed_Error", func(t *testing.T) {
		mock.ExpectExec(`UPDATE payment_webhooks SET processed_at = now\(\) WHERE id = \$1`).
			WithArgs(id).
			WillReturnError(errors.New("db error"))

		err := repo.MarkWebhookProcessed(ctx, id)
		assert.Error(t, err)
	})

	t.Run("MarkFailed", func(t *testing.T) {
		reason := "error"
		mock.ExpectExec(`UPDATE payment_webhooks SET process_error = \$2 WHERE id = \$1`).
			WithArgs(id, reason).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkWebhookFailed(ctx, id, reason)
		assert.NoError(t, err)
	})

	t.Run("MarkFailed_Error", func(t *testing.T) {
		reason := "error"
		mock.ExpectExec(`UPDATE payment_webhooks SET process_error = \$2 WHERE id = \$1`).
			WithArgs(id, reason).
			WillReturnError(errors.New("db error"))

		err := repo.MarkWebhookFailed(ctx, id, reason)
		assert.Error(t, err)
	})
}
