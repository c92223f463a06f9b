package cart

import (
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

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/cart", h.getCart)
	app.Post("/cart/add", h.addToCart)
	app.Post("/cart/increase/:productId", h.increase)
	app.Post("/cart/decrease/:productId", h.decrease)
	// clear must be registered before /cart/:productId
	app.Delete("/cart/clear", h.clearCart)
	app.Delete("/cart/:productId", h.removeFromCart)
}

type addRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	cart, err := h.service.GetCart(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "cart": cart})
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}

	cart, err := h.service.AddItem(userID, payload.ProductID, payload.Quantity)
	switch err {
	case nil:
		return c.JSON(fiber.Map{"success": true, "cart": cart})
	case ErrProductNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "product not found"})
	case ErrInvalidQuantity:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "quantity must be at least 1"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}

func (h *Handler) removeFromCart(c *fiber.Ctx) error {
	return h.lineOp(c, h.service.RemoveItem)
}

func (h *Handler) increase(c *fiber.Ctx) error {
	return h.lineOp(c, h.service.IncreaseQuantity)
}

func (h *Handler) decrease(c *fiber.Ctx) error {
	return h.lineOp(c, h.service.DecreaseQuantity)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	cart, err := h.service.Clear(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "cart cleared", "cart": cart})
}

// lineOp shares the param parsing and error mapping for the per-line
// endpoints.
func (h *Handler) lineOp(c *fiber.Ctx, op func(userID, productID int) (Cart, error)) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid product id"})
	}

	cart, err := op(userID, productID)
	switch err {
	case nil:
		return c.JSON(fiber.Map{"success": true, "cart": cart})
	case ErrItemNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "product not found in cart"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}
