package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afrobites/shop-backend/internal/model"
)

func newMockOrderRepo(t *testing.T) (*OrderRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOrderRepo(db), mock
}

func TestNewOrderRefFormat(t *testing.T) {
	ref, err := NewOrderRef()
	require.NoError(t, err)
	assert.Regexp(t, `^ORDER-\d{8}-[0-9A-F]{6}$`, ref)
}

func TestNewPaymentRefFormat(t *testing.T) {
	ref, err := NewPaymentRef()
	require.NoError(t, err)
	assert.Regexp(t, `^PAY-[0-9A-F]{8}$`, ref)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(errors.New("Error 1062 (23000): Duplicate entry")))
	assert.False(t, IsDuplicate(errors.New("Error 1213 (40001): Deadlock found")))
	assert.False(t, IsDuplicate(nil))
}

func TestCreateTxPopulatesRecord(t *testing.T) {
	repo, mock := newMockOrderRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)

	rec := OrderRecord{CustomerID: 7, TotalAmountCents: 2550, Status: model.OrderStatusConfirmed}
	require.NoError(t, repo.CreateTx(context.Background(), tx, &rec))
	assert.Equal(t, uint64(42), rec.ID)
	assert.Regexp(t, `^ORDER-\d{8}-[0-9A-F]{6}$`, rec.OrderRef)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLinesBulkTxEmptyIsNoOp(t *testing.T) {
	repo, mock := newMockOrderRepo(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)
	require.NoError(t, repo.AddLinesBulkTx(context.Background(), tx, nil))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentTxWritesSimulatedPayment(t *testing.T) {
	repo, mock := newMockOrderRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(uint64(42), model.PaymentMethodSimulated, int64(2550), sqlmock.AnyArg(), model.PaymentStatusSuccess).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)

	ref, err := repo.RecordPaymentTx(context.Background(), tx, 42, 2550)
	require.NoError(t, err)
	assert.Regexp(t, `^PAY-[0-9A-F]{8}$`, ref)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIdempotencyKeyMiss(t *testing.T) {
	repo, mock := newMockOrderRepo(t)

	mock.ExpectQuery(`FROM orders WHERE customer_id = \? AND idempotency_key = \?`).
		WithArgs(uint64(7), "key-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_ref", "customer_id", "total_amount_cents", "status", "created_at"}))

	_, err := repo.FindByIdempotencyKey(context.Background(), 7, "key-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCustomer(t *testing.T) {
	repo, mock := newMockOrderRepo(t)

	created := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM orders WHERE customer_id = \? ORDER BY created_at DESC`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_ref", "customer_id", "total_amount_cents", "status", "created_at"}).
			AddRow(43, "ORDER-20260830-AB12CD", 7, 1200, "confirmed", created).
			AddRow(42, "ORDER-20260829-3FA9C1", 7, 2550, "confirmed", created.Add(-24*time.Hour)))

	orders, err := repo.ListByCustomer(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORDER-20260830-AB12CD", orders[0].OrderRef)
	assert.Equal(t, int64(2550), orders[1].TotalAmountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}
