package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"salesapi/internal/domain"
)

// ErrNotFound is returned by point lookups that match no row.
var ErrNotFound = errors.New("record not found")

// ErrInUse is returned when a delete is blocked by rows that still reference the record.
var ErrInUse = errors.New("record is still referenced")

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func isConstraint(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// OpenDB opens the SQLite database and applies the schema. The pool is
// capped at a single connection: SQLite allows one writer at a time and an
// in-memory database only exists on the connection that created it.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  user_id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  user_email TEXT NOT NULL,
  role_id INTEGER NOT NULL CHECK (role_id IN (1,2,3)),
  password_hash TEXT NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(user_email));

-- Products (prices are stored as decimal text to keep them exact)
CREATE TABLE IF NOT EXISTS products(
  product_id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_name TEXT NOT NULL,
  product_description TEXT NOT NULL DEFAULT '',
  product_price TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  user_id INTEGER REFERENCES users(user_id) ON DELETE SET NULL,
  active INTEGER NOT NULL DEFAULT 1,
  version INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_active ON products(active);

-- Sales
CREATE TABLE IF NOT EXISTS sales(
  sales_id INTEGER PRIMARY KEY AUTOINCREMENT,
  sales_amount TEXT NOT NULL,
  buyer_id INTEGER NOT NULL REFERENCES users(user_id),
  seller_id INTEGER NOT NULL REFERENCES users(user_id),
  sale_date DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_buyer  ON sales(buyer_id);
CREATE INDEX IF NOT EXISTS idx_sales_seller ON sales(seller_id);

CREATE TABLE IF NOT EXISTS sales_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sales_id INTEGER NOT NULL REFERENCES sales(sales_id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(product_id),
  product_quantity INTEGER NOT NULL CHECK (product_quantity >= 1),
  unit_price TEXT NOT NULL,
  subtotal TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_items_sale ON sales_items(sales_id);
`
	_, err := db.Exec(schema)
	return err
}

// SeedDemo inserts one account per role and a few products when the users
// table is empty. Every demo account uses the given password.
func SeedDemo(ctx context.Context, db *sqlx.DB, password string, cost int, logger *zap.Logger) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	logger.Info("seeding demo users and products")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	users := NewUserRepo(tx)
	seed := []domain.User{
		{Username: "admin", FirstName: "Ada", LastName: "Admin", Email: "admin@sales.test", Role: domain.RoleAdmin, Hash: string(hash)},
		{Username: "seller", FirstName: "Sam", LastName: "Seller", Email: "seller@sales.test", Role: domain.RoleSeller, Hash: string(hash)},
		{Username: "buyer", FirstName: "Bea", LastName: "Buyer", Email: "buyer@sales.test", Role: domain.RoleBuyer, Hash: string(hash)},
	}
	for i := range seed {
		if err := users.Create(ctx, &seed[i]); err != nil {
			return err
		}
	}

	products := NewProductRepo(tx)
	for _, p := range []domain.Product{
		{Name: "Mechanical Keyboard", Description: "87-key, brown switches", Price: decimal.RequireFromString("89.90"), Quantity: 25, UserID: seed[1].ID},
		{Name: "USB-C Dock", Description: "Dual display dock", Price: decimal.RequireFromString("149.00"), Quantity: 10, UserID: seed[1].ID},
		{Name: "Webcam 1080p", Description: "Autofocus webcam", Price: decimal.RequireFromString("45.50"), Quantity: 40, UserID: seed[1].ID},
	} {
		if err := products.Create(ctx, &p); err != nil {
			return err
		}
	}

	return tx.Commit()
}
