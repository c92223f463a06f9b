package product

import (
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/odontools/shop-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/products", h.getProducts)
	app.Get("/products/:id", h.getProduct)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/products", user.RequireAdmin, h.createProduct)
	app.Put("/products/:id", user.RequireAdmin, h.updateProduct)
	app.Delete("/products/:id", user.RequireAdmin, h.deleteProduct)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "product not found"})
	}
	return c.JSON(fiber.Map{"success": true, "product": p})
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	p, err := h.parseProduct(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	created, err := h.service.Create(p)
	if err != nil {
		if err == ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "price and stock must be non-negative and name, description, category are required"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "product": created})
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	p, err := h.parseProduct(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	updated, err := h.service.Update(id, p)
	switch err {
	case nil:
		return c.JSON(fiber.Map{"success": true, "product": updated})
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "product not found"})
	case ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "price and stock must be non-negative"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	if err := h.service.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "product not found"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}

// parseProduct accepts either a JSON body or a multipart form. The
// multipart path saves an uploaded "image" file under ./uploads as an
// alternative to an image URL.
func (h *Handler) parseProduct(c *fiber.Ctx) (Product, error) {
	if !strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		p := Product{}
		if err := c.BodyParser(&p); err != nil {
			return Product{}, err
		}
		return p, nil
	}

	p := Product{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Image:       c.FormValue("image"),
	}

	price, err := decimal.NewFromString(c.FormValue("price", "0"))
	if err != nil {
		return Product{}, err
	}
	p.Price = price

	if p.Stock, err = strconv.Atoi(c.FormValue("stock", "0")); err != nil {
		return Product{}, err
	}
	if raw := c.FormValue("discount"); raw != "" {
		if p.Discount, err = strconv.Atoi(raw); err != nil {
			return Product{}, err
		}
	}

	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		if err := os.MkdirAll("./uploads", 0755); err != nil {
			return Product{}, err
		}
		path := "/uploads/" + file.Filename
		if err := c.SaveFile(file, "."+path); err != nil {
			return Product{}, err
		}
		p.Image = path
	}

	return p, nil
}
