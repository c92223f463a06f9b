package sale

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/odontools/shop-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes wires the sale endpoints. Export routes are
// registered separately by the export handler and must come first so
// /sales/csv-export is not captured by /sales/:id.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/sales", h.createSale)
	app.Get("/sales/user", h.getOwnSales)
	app.Get("/sales", user.RequireAdmin, h.getSales)
	app.Get("/sales/:id", user.RequireAdmin, h.getSale)
	app.Put("/sales/:id/status", user.RequireAdmin, h.updateStatus)
}

type createSaleRequest struct {
	PaymentMethod   string `json:"paymentMethod"`
	ShippingAddress string `json:"shippingAddress"`
	ShippingType    string `json:"shippingType"`
}

func (h *Handler) createSale(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	payload := new(createSaleRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	created, err := h.service.Checkout(userID, CheckoutInput{
		PaymentMethod:   payload.PaymentMethod,
		ShippingAddress: payload.ShippingAddress,
		ShippingType:    payload.ShippingType,
	})
	if err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.Is(err, ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "cart is empty"})
		case errors.As(err, &stockErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": stockErr.Error()})
		case errors.Is(err, ErrInvalidPayment):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid payment method"})
		case errors.Is(err, ErrInvalidShipping):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid shipping type"})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "sale": created, "message": "order created"})
}

func (h *Handler) getSales(c *fiber.Ctx) error {
	sales, err := h.service.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "sales": sales})
}

func (h *Handler) getOwnSales(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	sales, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "sales": sales})
}

func (h *Handler) getSale(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	s, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "sale not found"})
	}
	return c.JSON(fiber.Map{"success": true, "sale": s})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	updated, err := h.service.UpdateStatus(id, Status(payload.Status))
	if err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "sale not found"})
		case errors.Is(err, ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid sale status"})
		case errors.Is(err, ErrInvalidTransition):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid status transition"})
		case errors.As(err, &stockErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": stockErr.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"sale":    updated,
		"message": "status updated to " + payload.Status,
	})
}
