package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salesapi/internal/domain"
	"salesapi/internal/repos"
)

// ProductInput carries the writable product fields. Version is optional on
// update; when non-zero the write only succeeds if the stored row still has it.
type ProductInput struct {
	Name        string          `json:"productName"`
	Description string          `json:"productDescription"`
	Price       decimal.Decimal `json:"productPrice"`
	Quantity    int             `json:"quantity"`
	Version     int64           `json:"version,omitempty"`
}

func (in ProductInput) valid() bool {
	return strings.TrimSpace(in.Name) != "" && !in.Price.IsNegative() && in.Quantity >= 0
}

type ProductService struct {
	Products *repos.ProductRepo
	Logger   *zap.Logger
}

func NewProductService(products *repos.ProductRepo, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{Products: products, Logger: logger}
}

func (s *ProductService) Create(ctx context.Context, owner *domain.User, in ProductInput) (*domain.Product, error) {
	if !in.valid() {
		return nil, ErrInvalidProduct
	}
	p := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Quantity:    in.Quantity,
		UserID:      owner.ID,
	}
	if err := s.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.Logger.Info("product created", zap.Int64("product_id", p.ID), zap.Int64("user_id", owner.ID))
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Products.ListActive(ctx)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.Products.ByID(ctx, id)
	if errors.Is(err, repos.ErrNotFound) || (err == nil && !p.Active) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// Update overwrites the product fields. Sellers may only touch their own
// products; admins may touch any.
func (s *ProductService) Update(ctx context.Context, actor *domain.User, id int64, in ProductInput) (*domain.Product, error) {
	if !in.valid() {
		return nil, ErrInvalidProduct
	}
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Version != 0 {
		p.Version = in.Version
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	p.Quantity = in.Quantity

	switch err := s.Products.Update(ctx, p); {
	case errors.Is(err, repos.ErrVersionConflict):
		return nil, ErrProductConflict
	case errors.Is(err, repos.ErrNotFound):
		return nil, ErrProductNotFound
	case err != nil:
		return nil, err
	}
	s.Logger.Info("product updated", zap.Int64("product_id", p.ID), zap.Int64("version", p.Version))
	return p, nil
}

// Delete marks the product unavailable.
func (s *ProductService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Products.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.Logger.Info("product deactivated", zap.Int64("product_id", id))
	return nil
}

func (s *ProductService) owned(ctx context.Context, actor *domain.User, id int64) (*domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && p.UserID != actor.ID {
		return nil, ErrNotOwner
	}
	return p, nil
}
