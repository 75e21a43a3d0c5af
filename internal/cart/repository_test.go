package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		state := State{
			Items:     []LineItem{{ProductID: "p1", VariantID: "v1", Quantity: 2, Variant: VariantSnapshot{ID: "v1", Price: 25}}},
			ItemCount: 2,
			Subtotal:  50,
			Total:     50,
		}
		raw, err := json.Marshal(state)
		require.NoError(t, err)

		mock.ExpectQuery("SELECT state").
			WithArgs(uint(1)).
			WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow(raw))

		got, err := repo.Load(context.Background(), 1)
		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, state, *got)
	})

	t.Run("No persisted cart", func(t *testing.T) {
		mock.ExpectQuery("SELECT state").
			WithArgs(uint(2)).
			WillReturnError(sql.ErrNoRows)

		got, err := repo.Load(context.Background(), 2)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Corrupt payload", func(t *testing.T) {
		mock.ExpectQuery("SELECT state").
			WithArgs(uint(3)).
			WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow([]byte("{not json")))

		_, err := repo.Load(context.Background(), 3)
		assert.ErrorIs(t, err, ErrFailedLoadCart)
	})
}

func TestRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	state := State{Items: []LineItem{}, ItemCount: 0}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO carts").
			WithArgs(uint(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(context.Background(), 1, state)
		assert.NoError(t, err)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO carts").
			WillReturnError(errors.New("db error"))

		err := repo.Save(context.Background(), 1, state)
		assert.ErrorIs(t, err, ErrFailedSaveCart)
	})
}

func TestRepository_Clear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM carts").
			WithArgs(uint(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Clear(context.Background(), 1))
	})

	t.Run("Clearing an empty cart succeeds", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM carts").
			WithArgs(uint(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Clear(context.Background(), 9))
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM carts").
			WillReturnError(errors.New("db error"))

		err := repo.Clear(context.Background(), 1)
		assert.ErrorIs(t, err, ErrFailedClearCart)
	})
}
