package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"salesapi/internal/domain"
)

// ErrVersionConflict is returned by Update when the row changed since it was read.
var ErrVersionConflict = errors.New("product was modified concurrently")

// ErrStockUnavailable is returned by DecrementStock when the row does not
// hold enough units.
var ErrStockUnavailable = errors.New("insufficient stock")

const productColumns = `product_id, product_name, product_description, product_price, quantity,
	COALESCE(user_id, 0) AS user_id, active, version, created_at, updated_at`

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	var owner any
	if p.UserID != 0 {
		owner = p.UserID
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO products(product_name, product_description, product_price, quantity, user_id, active, version, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, 1, 1, ?, ?)
	`, p.Name, p.Description, p.Price, p.Quantity, owner, now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID, p.Active, p.Version, p.CreatedAt, p.UpdatedAt = id, true, 1, now, now
	return nil
}

// ByID returns the product regardless of its active flag.
func (r *ProductRepo) ByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+productColumns+` FROM products WHERE product_id = ?`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT `+productColumns+` FROM products WHERE active = 1 ORDER BY product_id
	`)
	return out, err
}

// Update writes name, description, price and quantity when the stored version
// still equals p.Version, then advances p.Version.
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET product_name = ?, product_description = ?, product_price = ?, quantity = ?,
		    version = version + 1, updated_at = ?
		WHERE product_id = ? AND version = ?
	`, p.Name, p.Description, p.Price, p.Quantity, now, p.ID, p.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.ByID(ctx, p.ID); err != nil {
			return err
		}
		return ErrVersionConflict
	}
	p.Version++
	p.UpdatedAt = now
	return nil
}

// Deactivate marks the product as no longer available. Rows are kept since
// sale items reference them.
func (r *ProductRepo) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET active = 0, version = version + 1, updated_at = ? WHERE product_id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// DecrementStock subtracts by units in a single conditional statement so two
// writers can never take the quantity below zero.
func (r *ProductRepo) DecrementStock(ctx context.Context, id int64, by int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - ?, version = version + 1, updated_at = ?
		WHERE product_id = ? AND quantity >= ?
	`, by, time.Now().UTC(), id, by)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStockUnavailable
	}
	return nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
