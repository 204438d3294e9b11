package handlers

import (
	"github.com/gofiber/fiber/v2"

	"salesapi/internal/domain"
	applog "salesapi/internal/log"
	"salesapi/internal/services"
	"salesapi/internal/validate"
)

type SaleHandler struct {
	Sales *services.SaleService
}

// Create commits a sale. The caller must be the buyer, the seller or an admin.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req domain.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"body": "sale"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request payload"})
	}

	u := currentUser(c)
	if u.Role != domain.RoleAdmin && u.ID != req.BuyerID && u.ID != req.SellerID {
		applog.Security(c, "access.denied.sale", map[string]any{"buyer_id": req.BuyerID, "seller_id": req.SellerID})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not a party to this sale"})
	}

	sale, err := h.Sales.Commit(c.UserContext(), req)
	if err != nil {
		return writeSaleError(c, "sale.commit", err)
	}
	applog.Audit(c, "sale.commit", map[string]any{
		"sales_id":     sale.ID,
		"sales_amount": sale.Amount.String(),
		"items":        len(sale.Items),
	})
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// List returns every sale keyed by sales id.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	sales, err := h.Sales.ListSales(c.UserContext())
	if err != nil {
		return writeSaleError(c, "sale.list", err)
	}
	return c.JSON(sales)
}

// Get returns one sale with its items. Non-admins only see sales they are a party to.
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sale id"})
	}
	sale, err := h.Sales.GetSale(c.UserContext(), id)
	if err != nil {
		return writeSaleError(c, "sale.get", err)
	}
	u := currentUser(c)
	if u.Role != domain.RoleAdmin && u.ID != sale.BuyerID && u.ID != sale.SellerID {
		applog.Security(c, "access.denied.sale", map[string]any{"sales_id": id})
		return writeSaleError(c, "sale.get", domain.ErrSaleNotFound)
	}
	return c.JSON(sale)
}
