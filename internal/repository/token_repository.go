package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists refresh-token sessions. Only the SHA-256 hash of a
// token ever reaches the refresh_tokens table; the raw value lives solely
// with the shopper's client. A row is live until its expiry passes or
// revoked_at is set, and logout-all simply revokes every live row for the
// customer.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a new session for the customer. Each login and each
// rotation inserts its own row, so one customer can hold sessions on
// several devices at once.
func (r *TokenRepo) StoreRefresh(ctx context.Context, customerID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (customer_id, token_hash, expires_at) VALUES (?, ?, ?)`,
		customerID, tokenHash, exp)
	return err
}

// ValidateRefresh resolves a token hash to its customer. Expiry and
// revocation are filtered in SQL, so a dead token is indistinguishable from
// one that never existed: both come back as sql.ErrNoRows.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var customerID uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT customer_id FROM refresh_tokens
               WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()
               LIMIT 1`,
		tokenHash).Scan(&customerID)
	if err != nil {
		return 0, err
	}
	return customerID, nil
}

// RevokeByHash ends the single session behind one refresh token. Revoking
// an already-revoked or unknown hash is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
               WHERE token_hash = ? AND revoked_at IS NULL`,
		tokenHash)
	return err
}

// RevokeAllForCustomer ends every live session the customer has, across all
// devices. Logout with only a bearer token uses this.
func (r *TokenRepo) RevokeAllForCustomer(ctx context.Context, customerID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
               WHERE customer_id = ? AND revoked_at IS NULL`,
		customerID)
	return err
}
