package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "salesapi/internal/log"
	"salesapi/internal/services"
	"salesapi/internal/validate"
)

type ProductHandler struct {
	Products *services.ProductService
}

func productStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidProduct):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrProductConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func (h *ProductHandler) fail(c *fiber.Ctx, action string, err error) error {
	status := productStatus(err)
	if status == fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
		return c.Status(status).JSON(fiber.Map{"error": friendlyMessage})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Products.List(c.UserContext())
	if err != nil {
		return h.fail(c, "product.list.fail", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	p, err := h.Products.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "product.get.fail", err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request payload"})
	}
	p, err := h.Products.Create(c.UserContext(), currentUser(c), in)
	if err != nil {
		return h.fail(c, "product.create.fail", err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request payload"})
	}
	p, err := h.Products.Update(c.UserContext(), currentUser(c), id, in)
	if err != nil {
		return h.fail(c, "product.update.fail", err)
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id, "version": p.Version})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Products.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return h.fail(c, "product.delete.fail", err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
