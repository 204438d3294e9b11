package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"salesapi/internal/domain"
	"salesapi/internal/repos"
)

// SalesCache holds the full sales listing between commits. Listings are
// stored per generation and Invalidate starts a new one, so a fill for an
// older generation is never served.
type SalesCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64) (map[int64]domain.SaleWithItems, bool)
	Set(ctx context.Context, gen int64, sales map[int64]domain.SaleWithItems) error
	Invalidate(ctx context.Context) error
}

type SaleService struct {
	store  *repos.Store
	cache  SalesCache
	logger *zap.Logger
	now    func() time.Time
}

// NewSaleService wires the sale workflow. cache may be nil.
func NewSaleService(store *repos.Store, cache SalesCache, logger *zap.Logger) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{store: store, cache: cache, logger: logger, now: time.Now}
}

// Commit validates req, prices it and persists the sale, its items and the
// stock decrements in one transaction. On error nothing is written.
func (s *SaleService) Commit(ctx context.Context, req domain.SaleRequest) (*domain.SaleWithItems, error) {
	var (
		out   *domain.SaleWithItems
		txErr error
	)
	err := s.store.InTx(ctx, func(tx *repos.Store) error {
		out, txErr = s.commit(ctx, tx, req)
		return txErr
	})
	if txErr != nil {
		s.logFailure(req, txErr)
		return nil, txErr
	}
	if err != nil {
		err = &domain.PersistenceError{Op: "transaction", Err: err}
		s.logFailure(req, err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("sales cache invalidate failed", zap.Error(err))
		}
	}
	s.logger.Info("sale committed",
		zap.Int64("sales_id", out.ID),
		zap.Int64("buyer_id", out.BuyerID),
		zap.Int64("seller_id", out.SellerID),
		zap.Stringer("sales_amount", out.Amount),
		zap.Int("items", len(out.Items)),
	)
	return out, nil
}

func (s *SaleService) commit(ctx context.Context, tx *repos.Store, req domain.SaleRequest) (*domain.SaleWithItems, error) {
	v := SaleValidator{Users: tx.Users, Products: tx.Products}
	vs, err := v.Validate(ctx, req)
	if err != nil {
		return nil, err
	}

	sale := domain.Sale{BuyerID: vs.Buyer.ID, SellerID: vs.Seller.ID, SaleDate: s.now().UTC()}
	if vs.SaleDate != nil && !vs.SaleDate.IsZero() {
		sale.SaleDate = vs.SaleDate.UTC()
	}
	items := make([]domain.SaleItem, 0, len(vs.Lines))
	for _, l := range vs.Lines {
		unit, subtotal := PriceLine(l.Request, l.Product)
		items = append(items, domain.SaleItem{
			ProductID: l.Product.ID,
			Quantity:  l.Request.Quantity,
			UnitPrice: unit,
			Subtotal:  subtotal,
		})
		sale.Amount = sale.Amount.Add(subtotal)
	}

	if err := tx.Sales.Create(ctx, &sale); err != nil {
		return nil, &domain.PersistenceError{Op: "sale", Err: err}
	}
	for i := range items {
		items[i].SaleID = sale.ID
		if err := tx.Sales.CreateItem(ctx, &items[i]); err != nil {
			return nil, &domain.PersistenceError{Op: "sale item", Err: err}
		}
	}
	for _, it := range items {
		err := tx.Products.DecrementStock(ctx, it.ProductID, it.Quantity)
		if errors.Is(err, repos.ErrStockUnavailable) {
			return nil, &domain.ProductError{ProductID: it.ProductID, Err: domain.ErrInsufficientStock}
		}
		if err != nil {
			return nil, &domain.PersistenceError{Op: "stock", Err: err}
		}
	}
	return &domain.SaleWithItems{Sale: sale, Items: items}, nil
}

func (s *SaleService) logFailure(req domain.SaleRequest, err error) {
	fields := []zap.Field{
		zap.Int64("buyer_id", req.BuyerID),
		zap.Int64("seller_id", req.SellerID),
		zap.Int("items", len(req.Items)),
		zap.Error(err),
	}
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		s.logger.Error("sale commit failed", fields...)
		return
	}
	s.logger.Warn("sale rejected", fields...)
}

// ListSales returns every sale keyed by its id, each with its items.
func (s *SaleService) ListSales(ctx context.Context) (map[int64]domain.SaleWithItems, error) {
	var (
		gen  int64
		fill bool
	)
	if s.cache != nil {
		g, err := s.cache.Generation(ctx)
		if err != nil {
			s.logger.Warn("sales cache generation read failed", zap.Error(err))
		} else {
			if hit, ok := s.cache.Get(ctx, g); ok {
				return hit, nil
			}
			gen, fill = g, true
		}
	}

	out := map[int64]domain.SaleWithItems{}
	err := s.store.InTx(ctx, func(tx *repos.Store) error {
		sales, err := tx.Sales.List(ctx)
		if err != nil {
			return err
		}
		for _, sale := range sales {
			items, err := tx.Sales.ItemsBySale(ctx, sale.ID)
			if err != nil {
				return err
			}
			out[sale.ID] = domain.SaleWithItems{Sale: sale, Items: items}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("list sales failed", zap.Error(err))
		return nil, &domain.PersistenceError{Op: "list sales", Err: err}
	}

	if fill {
		if err := s.cache.Set(ctx, gen, out); err != nil {
			s.logger.Warn("sales cache fill failed", zap.Error(err))
		}
	}
	return out, nil
}

func (s *SaleService) GetSale(ctx context.Context, id int64) (*domain.SaleWithItems, error) {
	sale, err := s.store.Sales.ByID(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, domain.ErrSaleNotFound
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get sale", Err: err}
	}
	items, err := s.store.Sales.ItemsBySale(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get sale items", Err: err}
	}
	return &domain.SaleWithItems{Sale: *sale, Items: items}, nil
}
