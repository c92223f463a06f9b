package export

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/odontools/shop-backend/internal/product"
	"github.com/odontools/shop-backend/internal/sale"
	"github.com/odontools/shop-backend/internal/user"
)

type SaleReader interface {
	GetByID(id int) (sale.Sale, error)
	ListAll() ([]sale.Sale, error)
	ListByUser(userID int) ([]sale.Sale, error)
}

type UserGetter interface {
	GetByID(id int) (user.User, error)
}

type ProductGetter interface {
	GetByID(id int) (product.Product, error)
}

type Handler struct {
	sales    SaleReader
	users    UserGetter
	products ProductGetter
}

func NewHandler(sales SaleReader, users UserGetter, products ProductGetter) *Handler {
	return &Handler{sales: sales, users: users, products: products}
}

// RegisterProtectedRoutes must run before the sale handler registers
// GET /sales/:id, otherwise /sales/csv-export is captured by the
// wildcard.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/sales/csv-export", user.RequireAdmin, h.exportAllCSV)
	app.Get("/sales/user/csv-export", h.exportOwnCSV)
	app.Get("/sales/:id/export", user.RequireAdmin, h.exportPDF)
}

func (h *Handler) productName(id int) (string, bool) {
	p, err := h.products.GetByID(id)
	if err != nil {
		if !errors.Is(err, product.ErrNotFound) {
			log.Printf("export: resolve product %d: %v", id, err)
		}
		return "", false
	}
	return p.Name, true
}

func (h *Handler) customerName(userID int) (string, bool) {
	u, err := h.users.GetByID(userID)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			log.Printf("export: resolve user %d: %v", userID, err)
		}
		return "", false
	}
	return u.Name, true
}

func (h *Handler) exportPDF(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid sale id",
		})
	}
	s, err := h.sales.GetByID(id)
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "sale not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "could not load sale",
		})
	}
	customer, err := h.users.GetByID(s.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			customer = user.User{Name: fmt.Sprintf("user #%d", s.UserID)}
		} else {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "could not load customer",
			})
		}
	}

	var buf bytes.Buffer
	if err := InvoicePDF(&buf, s, customer, h.productName); err != nil {
		if errors.Is(err, ErrNoValidItems) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "sale has no valid products",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "could not generate PDF",
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="sale_%d.pdf"`, s.ID))
	return c.Send(buf.Bytes())
}

func (h *Handler) exportAllCSV(c *fiber.Ctx) error {
	sales, err := h.sales.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "could not load sales",
		})
	}
	return h.sendCSV(c, sales, "sales.csv")
}

func (h *Handler) exportOwnCSV(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "unauthorized",
		})
	}
	sales, err := h.sales.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "could not load sales",
		})
	}
	return h.sendCSV(c, sales, fmt.Sprintf("sales_user_%d.csv", userID))
}

func (h *Handler) sendCSV(c *fiber.Ctx, sales []sale.Sale, filename string) error {
	var buf bytes.Buffer
	if err := SalesCSV(&buf, sales, h.customerName, h.productName); err != nil {
		if errors.Is(err, ErrNoSales) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "no sales to export",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "could not generate CSV",
		})
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
