package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"salesapi/internal/domain"
	"salesapi/internal/services"
)

func TestPriceLine(t *testing.T) {
	product := domain.Product{ID: 1, Price: decimal.RequireFromString("10.00")}
	d := decimal.RequireFromString

	cases := []struct {
		name         string
		override     decimal.NullDecimal
		qty          int
		unit, amount decimal.Decimal
	}{
		{"catalog price", decimal.NullDecimal{}, 2, d("10.00"), d("20.00")},
		{"override wins", decimal.NewNullDecimal(d("7.25")), 3, d("7.25"), d("21.75")},
		{"zero override falls back", decimal.NewNullDecimal(decimal.Zero), 4, d("10.00"), d("40.00")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unit, sub := services.PriceLine(domain.LineItemRequest{ProductID: 1, Quantity: tc.qty, UnitPrice: tc.override}, product)
			assert.True(t, unit.Equal(tc.unit), "unit %s, want %s", unit, tc.unit)
			assert.True(t, sub.Equal(tc.amount), "subtotal %s, want %s", sub, tc.amount)
		})
	}
}

func TestPriceLine_NoFloatDrift(t *testing.T) {
	p := domain.Product{Price: decimal.RequireFromString("0.10")}
	total := decimal.Zero
	for i := 0; i < 10; i++ {
		_, sub := services.PriceLine(domain.LineItemRequest{Quantity: 1}, p)
		total = total.Add(sub)
	}
	assert.Equal(t, "1", total.String())
}
