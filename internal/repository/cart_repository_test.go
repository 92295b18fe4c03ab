package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afrobites/shop-backend/internal/model"
)

func newMockRepo(t *testing.T) (*CartRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCartRepo(db), mock
}

func TestAddCustomerUpsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO cart_lines`).
		WithArgs(uint64(7), uint64(1), 2, int64(1000)).
		WillReturnResult(sqlmock.NewResult(11, 1))

	err := repo.Add(context.Background(), model.CustomerOwner(7, "sess"), 1, 2, 1000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddGuestUpsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO cart_lines`).
		WithArgs("sess", uint64(1), 2, int64(1000)).
		WillReturnResult(sqlmock.NewResult(11, 1))

	err := repo.Add(context.Background(), model.GuestOwner("sess"), 1, 2, 1000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuantityFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE cart_lines SET quantity`).
		WithArgs(3, uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.UpdateQuantity(context.Background(), 11, 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuantitySameValueStillFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	// MySQL reports zero affected rows for a same-value update; the repo
	// falls back to an existence check.
	mock.ExpectExec(`UPDATE cart_lines SET quantity`).
		WithArgs(3, uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id FROM cart_lines WHERE id`).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	found, err := repo.UpdateQuantity(context.Background(), 11, 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuantityMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE cart_lines SET quantity`).
		WithArgs(3, uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id FROM cart_lines WHERE id`).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	found, err := repo.UpdateQuantity(context.Background(), 404, 3)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwnerCustomerUnion(t *testing.T) {
	repo, mock := newMockRepo(t)

	added := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "product_id", "quantity", "unit_price_cents", "added_at", "title", "image"}).
		AddRow(12, 2, 1, 550, added, "Plantain Chips", nil).
		AddRow(11, 1, 2, 1000, added.Add(-time.Hour), "Jollof Spice Mix", "jollof.jpg")

	// The customer read covers both owner keys so pre-login items remain
	// visible while the merge is pending.
	mock.ExpectQuery(`WHERE c\.customer_id = \? OR c\.session_key = \?`).
		WithArgs(uint64(7), "sess").
		WillReturnRows(rows)

	items, err := repo.ListByOwner(context.Background(), model.CustomerOwner(7, "sess"))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Plantain Chips", items[0].Title)
	assert.Nil(t, items[0].Image)
	assert.Equal(t, "5.50", items[0].Subtotal)

	require.NotNil(t, items[1].Image)
	assert.Equal(t, "jollof.jpg", *items[1].Image)
	assert.Equal(t, int64(2000), items[1].SubtotalCents)
	assert.Equal(t, "20.00", items[1].Subtotal)
	assert.Equal(t, "10.00", items[1].UnitPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwnerGuest(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE c\.session_key = \?`).
		WithArgs("sess").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity", "unit_price_cents", "added_at", "title", "image"}))

	items, err := repo.ListByOwner(context.Background(), model.GuestOwner("sess"))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearCustomerCoversBothKeys(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM cart_lines WHERE customer_id = \? OR session_key = \?`).
		WithArgs(uint64(7), "sess").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.Clear(context.Background(), model.CustomerOwner(7, "sess"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUpdateTxLocksRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(uint64(7), "sess").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity", "unit_price_cents"}).
			AddRow(11, 1, 2, 1000))
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)

	lines, err := repo.ListForUpdateTx(context.Background(), tx, 7, "sess")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, uint64(1), lines[0].ProductID)
	assert.Equal(t, int64(1000), lines[0].UnitPriceCents)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
