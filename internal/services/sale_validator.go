package services

import (
	"context"
	"errors"
	"time"

	"salesapi/internal/domain"
	"salesapi/internal/repos"
)

type UserLookup interface {
	ByID(ctx context.Context, id int64) (*domain.User, error)
}

type ProductLookup interface {
	ByID(ctx context.Context, id int64) (*domain.Product, error)
}

// ValidatedLine pairs a requested line with the product row it was checked against.
type ValidatedLine struct {
	Request domain.LineItemRequest
	Product domain.Product
}

type ValidatedSale struct {
	Buyer    domain.User
	Seller   domain.User
	Lines    []ValidatedLine
	SaleDate *time.Time
}

// SaleValidator checks a SaleRequest against the current store state. It
// never writes; the first failing check is returned.
type SaleValidator struct {
	Users    UserLookup
	Products ProductLookup
}

func (v SaleValidator) Validate(ctx context.Context, req domain.SaleRequest) (*ValidatedSale, error) {
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptySale
	}

	buyer, err := v.party(ctx, req.BuyerID, "lookup buyer")
	if err != nil {
		return nil, err
	}
	seller, err := v.party(ctx, req.SellerID, "lookup seller")
	if err != nil {
		return nil, err
	}
	// One account can never hold both roles, so self-trade is reported
	// before the role checks would mask it.
	if req.BuyerID == req.SellerID {
		return nil, domain.ErrSelfTrade
	}
	if buyer.Role != domain.RoleBuyer {
		return nil, domain.ErrInvalidBuyerRole
	}
	if !seller.Role.CanSell() {
		return nil, domain.ErrInvalidSellerRole
	}

	out := &ValidatedSale{Buyer: *buyer, Seller: *seller, SaleDate: req.SaleDate}
	seen := make(map[int64]*domain.Product, len(req.Items))
	requested := make(map[int64]int, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, &domain.ProductError{ProductID: it.ProductID, Err: domain.ErrInvalidQuantity}
		}
		if it.UnitPrice.Valid && it.UnitPrice.Decimal.IsNegative() {
			return nil, &domain.ProductError{ProductID: it.ProductID, Err: domain.ErrInvalidUnitPrice}
		}

		p, ok := seen[it.ProductID]
		if !ok {
			p, err = v.Products.ByID(ctx, it.ProductID)
			switch {
			case errors.Is(err, repos.ErrNotFound):
				return nil, &domain.ProductError{ProductID: it.ProductID, Err: domain.ErrProductNotFound}
			case err != nil:
				return nil, &domain.PersistenceError{Op: "lookup product", Err: err}
			case !p.Active:
				return nil, &domain.ProductError{ProductID: it.ProductID, Err: domain.ErrProductNotFound}
			}
			seen[it.ProductID] = p
		}

		requested[it.ProductID] += it.Quantity
		if requested[it.ProductID] > p.Quantity {
			return nil, &domain.ProductError{ProductID: it.ProductID, Err: domain.ErrInsufficientStock}
		}
		out.Lines = append(out.Lines, ValidatedLine{Request: it, Product: *p})
	}
	return out, nil
}

func (v SaleValidator) party(ctx context.Context, id int64, op string) (*domain.User, error) {
	u, err := v.Users.ByID(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, domain.ErrPartyNotFound
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: op, Err: err}
	}
	return u, nil
}
