package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"salesapi/internal/config"
	"salesapi/internal/domain"
	"salesapi/internal/http/handlers"
	"salesapi/internal/repos"
)

const demoPassword = "Passw0rd!"

// Seeded by repos.SeedDemo in insertion order.
const (
	adminID  int64 = 1
	sellerID int64 = 2
	buyerID  int64 = 3
)

type testApp struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
	logs *observer.ObservedLogs
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWith(t, func(*handlers.Deps) {})
}

func newTestAppWith(t *testing.T, tweak func(*handlers.Deps)) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repos.SeedDemo(context.Background(), db, demoPassword, bcrypt.MinCost, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)

	cfg := config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost}
	deps := handlers.NewDeps(db, cfg, nil, zap.New(core))
	tweak(deps)

	app := fiber.New(fiber.Config{
		Views:        html.New("../../web/templates", ".html"),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	deps.Mount(app)
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})
	return &testApp{app: app, db: db, deps: deps, logs: logs}
}

// token issues a session token for a seeded user without going through login.
func (a *testApp) token(t *testing.T, id int64) string {
	t.Helper()
	u, err := repos.NewUserRepo(a.db).ByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load user %d: %v", id, err)
	}
	tok, err := a.deps.Auth.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (a *testApp) stock(t *testing.T, productID int64) int {
	t.Helper()
	p, err := repos.NewProductRepo(a.db).ByID(context.Background(), productID)
	if err != nil {
		t.Fatalf("load product %d: %v", productID, err)
	}
	return p.Quantity
}

func (a *testApp) product(t *testing.T, price string, qty int) int64 {
	t.Helper()
	var p domain.Product
	p.Name, p.Quantity, p.UserID = "fixture", qty, sellerID
	if err := p.Price.Scan(price); err != nil {
		t.Fatalf("price: %v", err)
	}
	if err := repos.NewProductRepo(a.db).Create(context.Background(), &p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p.ID
}

func decode(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// logged reports whether an entry with the given message was captured.
func (a *testApp) logged(action string) bool {
	return a.logs.FilterMessage(action).Len() > 0
}
