package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"salesapi/internal/domain"
)

// SaleRepo persists sale headers and their items. Both tables are append-only.
type SaleRepo struct{ db sqlx.ExtContext }

func NewSaleRepo(db sqlx.ExtContext) *SaleRepo { return &SaleRepo{db: db} }

// Create inserts the sale header and sets s.ID.
func (r *SaleRepo) Create(ctx context.Context, s *domain.Sale) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sales(sales_amount, buyer_id, seller_id, sale_date)
		VALUES(?, ?, ?, ?)
	`, s.Amount, s.BuyerID, s.SellerID, s.SaleDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// CreateItem inserts a single line item and sets it.ID.
func (r *SaleRepo) CreateItem(ctx context.Context, it *domain.SaleItem) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sales_items(sales_id, product_id, product_quantity, unit_price, subtotal)
		VALUES(?, ?, ?, ?, ?)
	`, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = id
	return nil
}

func (r *SaleRepo) ByID(ctx context.Context, id int64) (*domain.Sale, error) {
	var s domain.Sale
	err := sqlx.GetContext(ctx, r.db, &s, `
		SELECT sales_id, sales_amount, buyer_id, seller_id, sale_date FROM sales WHERE sales_id = ?
	`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *SaleRepo) List(ctx context.Context) ([]domain.Sale, error) {
	out := []domain.Sale{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT sales_id, sales_amount, buyer_id, seller_id, sale_date FROM sales ORDER BY sales_id
	`)
	return out, err
}

func (r *SaleRepo) ItemsBySale(ctx context.Context, saleID int64) ([]domain.SaleItem, error) {
	out := []domain.SaleItem{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT id, sales_id, product_id, product_quantity, unit_price, subtotal
		FROM sales_items
		WHERE sales_id = ?
		ORDER BY id
	`, saleID)
	return out, err
}
