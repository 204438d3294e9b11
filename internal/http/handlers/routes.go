package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"salesapi/internal/domain"
	applog "salesapi/internal/log"
)

// Mount registers every route on app.
func (d *Deps) Mount(app *fiber.App) {
	session := RequireSession(d.Auth)
	admin := RequireRole(domain.RoleAdmin)
	sellerOrAdmin := RequireRole(domain.RoleAdmin, domain.RoleSeller)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        d.LoginLimit,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	auth.Post("/logout", d.AuthHandler.Logout)

	users := api.Group("/users")
	users.Post("/register", d.UserHandler.Register)
	users.Put("/update/:userId", session, d.UserHandler.Update)
	users.Delete("/delete/:userId", session, admin, d.UserHandler.Delete)
	users.Get("/all", session, d.UserHandler.All)

	products := api.Group("/products", session)
	products.Get("/", d.ProductHandler.List)
	products.Get("/:id", d.ProductHandler.Get)
	products.Post("/", sellerOrAdmin, d.ProductHandler.Create)
	products.Put("/:id", sellerOrAdmin, d.ProductHandler.Update)
	products.Delete("/:id", sellerOrAdmin, d.ProductHandler.Delete)

	sales := api.Group("/sales", session)
	sales.Post("/", d.SaleHandler.Create)
	sales.Get("/", admin, d.SaleHandler.List)
	sales.Get("/:id", d.SaleHandler.Get)

	app.Get("/admin/sales", session, admin, d.AdminHandler.SalesPage)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
