package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/afrobites/shop-backend/internal/model"
)

// ProductRepo is the narrow catalog view this service needs: the current
// unit price used to snapshot new cart lines, plus display fields. Catalog
// writes happen elsewhere; from here the products table is read-only.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a ProductRepo bound to the given database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// GetByID fetches a product by id. Returns ErrProductNotFound when no such
// product exists.
func (r *ProductRepo) GetByID(ctx context.Context, productID uint64) (model.Product, error) {
	var (
		p     model.Product
		image sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, price_cents, image, created_at FROM products WHERE id = ? LIMIT 1`,
		productID).Scan(&p.ID, &p.Title, &p.PriceCents, &image, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	if image.Valid {
		img := image.String
		p.Image = &img
	}
	return p, nil
}
