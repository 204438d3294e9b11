package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"salesapi/internal/domain"
	applog "salesapi/internal/log"
	"salesapi/internal/services"
)

type AdminHandler struct {
	Sales *services.SaleService
}

// GET /admin/sales
func (h *AdminHandler) SalesPage(c *fiber.Ctx) error {
	byID, err := h.Sales.ListSales(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.sales.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{"Message": "Could not load sales"})
	}
	sales := make([]domain.SaleWithItems, 0, len(byID))
	for _, s := range byID {
		sales = append(sales, s)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].ID > sales[j].ID })
	return render(c, "admin_sales", fiber.Map{"Sales": sales})
}
