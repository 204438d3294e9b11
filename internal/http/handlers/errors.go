package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"salesapi/internal/domain"
	applog "salesapi/internal/log"
)

const friendlyMessage = "Something went wrong. Please try again."

var saleErrors = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrEmptySale, fiber.StatusBadRequest, "empty_sale"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "invalid_quantity"},
	{domain.ErrInvalidUnitPrice, fiber.StatusBadRequest, "invalid_unit_price"},
	{domain.ErrInvalidBuyerRole, fiber.StatusBadRequest, "invalid_buyer_role"},
	{domain.ErrInvalidSellerRole, fiber.StatusBadRequest, "invalid_seller_role"},
	{domain.ErrSelfTrade, fiber.StatusBadRequest, "self_trade"},
	{domain.ErrPartyNotFound, fiber.StatusNotFound, "party_not_found"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "product_not_found"},
	{domain.ErrSaleNotFound, fiber.StatusNotFound, "sale_not_found"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "insufficient_stock"},
}

// classifySaleError maps a sale workflow error to an HTTP status and a stable code.
func classifySaleError(err error) (int, string) {
	for _, e := range saleErrors {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return fiber.StatusInternalServerError, "persistence"
}

func writeSaleError(c *fiber.Ctx, action string, err error) error {
	status, code := classifySaleError(err)
	body := fiber.Map{"error": err.Error(), "code": code}
	var pe *domain.ProductError
	if errors.As(err, &pe) {
		body["productId"] = pe.ProductID
	}
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, action+".fail", err, nil)
		body["error"] = "failed to save sale"
	} else {
		applog.Security(c, action+".reject", map[string]any{"code": code, "error": err.Error()})
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler logs server errors and answers without internal details:
// JSON under /api, the error page elsewhere.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := friendlyMessage
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("error", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
