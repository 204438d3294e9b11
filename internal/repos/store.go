package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Store groups the repositories over one connection handle. A Store returned
// to an InTx callback runs every statement inside that transaction.
type Store struct {
	db *sqlx.DB

	Users    *UserRepo
	Products *ProductRepo
	Sales    *SaleRepo
}

func NewStore(db *sqlx.DB) *Store {
	s := bind(db)
	s.db = db
	return s
}

func bind(ext sqlx.ExtContext) *Store {
	return &Store{
		Users:    NewUserRepo(ext),
		Products: NewProductRepo(ext),
		Sales:    NewSaleRepo(ext),
	}
}

// InTx runs fn in a transaction, committing when fn returns nil and rolling
// back otherwise. Calling InTx on a transactional Store reuses the open
// transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(bind(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
