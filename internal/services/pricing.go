package services

import (
	"github.com/shopspring/decimal"

	"salesapi/internal/domain"
)

// PriceLine resolves the unit price of a line (a non-zero override wins over
// the catalog price) and its subtotal.
func PriceLine(line domain.LineItemRequest, p domain.Product) (unit, subtotal decimal.Decimal) {
	unit = p.Price
	if line.UnitPrice.Valid && !line.UnitPrice.Decimal.IsZero() {
		unit = line.UnitPrice.Decimal
	}
	return unit, unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
}
