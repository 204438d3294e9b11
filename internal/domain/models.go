package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `db:"product_id" json:"productId"`
	Name        string          `db:"product_name" json:"productName"`
	Description string          `db:"product_description" json:"productDescription"`
	Price       decimal.Decimal `db:"product_price" json:"productPrice"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UserID      int64           `db:"user_id" json:"userId"`
	Active      bool            `db:"active" json:"active"`
	Version     int64           `db:"version" json:"version"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// LineItemRequest is one product/quantity pair of a SaleRequest. UnitPrice,
// when set to a non-zero value, overrides the catalog price.
type LineItemRequest struct {
	ProductID int64               `json:"productId"`
	Quantity  int                 `json:"productQuantity"`
	UnitPrice decimal.NullDecimal `json:"unitPrice"`
}

type SaleRequest struct {
	BuyerID  int64             `json:"buyerId"`
	SellerID int64             `json:"sellerId"`
	Items    []LineItemRequest `json:"items"`
	SaleDate *time.Time        `json:"saleDate,omitempty"`
}

// Sale is the persisted header of a committed sale. It is never updated.
type Sale struct {
	ID       int64           `db:"sales_id" json:"salesId"`
	Amount   decimal.Decimal `db:"sales_amount" json:"salesAmount"`
	BuyerID  int64           `db:"buyer_id" json:"buyerId"`
	SellerID int64           `db:"seller_id" json:"sellerId"`
	SaleDate time.Time       `db:"sale_date" json:"saleDate"`
}

type SaleItem struct {
	ID        int64           `db:"id" json:"id"`
	SaleID    int64           `db:"sales_id" json:"salesId"`
	ProductID int64           `db:"product_id" json:"productId"`
	Quantity  int             `db:"product_quantity" json:"productQuantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// SaleWithItems is a sale header together with its line items in insertion order.
type SaleWithItems struct {
	Sale
	Items []SaleItem `json:"items"`
}
