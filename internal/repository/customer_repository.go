package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/afrobites/shop-backend/internal/model"
	"github.com/afrobites/shop-backend/internal/utils"
)

// CustomerRepo persists shopper accounts.
type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

// Create inserts a customer and returns its ID.
func (r *CustomerRepo) Create(ctx context.Context, fullName, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO customers (full_name, email, password_hash) VALUES (?,?,?)",
		fullName, email, hash)
	if err != nil {
		if IsDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a customer by normalized email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var c model.Customer
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,full_name,email,password_hash,created_at,updated_at FROM customers WHERE email=? LIMIT 1",
		email).Scan(&c.ID, &c.FullName, &c.Email, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetByID fetches a customer by id.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	var c model.Customer
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,full_name,email,password_hash,created_at,updated_at FROM customers WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.FullName, &c.Email, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
