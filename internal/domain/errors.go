package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySale         = errors.New("sale must have at least one item")
	ErrPartyNotFound     = errors.New("buyer or seller not found")
	ErrInvalidBuyerRole  = errors.New("invalid role for buyer")
	ErrInvalidSellerRole = errors.New("invalid role for seller")
	ErrSelfTrade         = errors.New("buyer and seller cannot be the same user")
	ErrInvalidQuantity   = errors.New("product quantity must be at least 1")
	ErrInvalidUnitPrice  = errors.New("unit price cannot be negative")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrSaleNotFound      = errors.New("sale not found")
)

// ProductError ties a line-item failure to the product it refers to.
type ProductError struct {
	ProductID int64
	Err       error
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("%v: product %d", e.Err, e.ProductID)
}

func (e *ProductError) Unwrap() error { return e.Err }

// PersistenceError wraps a store failure that happened while committing a sale.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
