package cart

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"

	"github.com/odontools/shop-backend/internal/product"
)

func makeCartApp(handler *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				claims := jwt.MapClaims{"user_id": id}
				c.Locals("user", &jwt.Token{Claims: claims})
			}
		}
		return c.Next()
	})
	handler.RegisterProtectedRoutes(app)
	return app
}

func seededService() *Service {
	products := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Curing light", Description: "LED", Category: "equipment",
			Price: decimal.NewFromInt(100), Stock: 5},
		{ID: 2, Name: "Gloves", Description: "Nitrile", Category: "consumables",
			Price: decimal.NewFromInt(10), Stock: 50},
	})
	return NewService(NewInMemoryRepository(), product.NewService(products))
}

func do(app *fiber.App, method, path, body string) (int, string) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestCartRoutes(t *testing.T) {
	app := makeCartApp(NewHandler(seededService()))

	// unauthenticated requests are rejected
	res, _ := app.Test(httptest.NewRequest("GET", "/cart", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", res.StatusCode)
	}

	// empty cart on first access
	code, body := do(app, "GET", "/cart", "")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(body, `"items":[]`) {
		t.Fatalf("expected empty cart, got %s", body)
	}

	// add product 1 with default quantity 1
	code, body = do(app, "POST", "/cart/add", `{"productId":1}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d: %s", code, body)
	}
	if !strings.Contains(body, `"quantity":1`) {
		t.Fatalf("expected quantity 1, got %s", body)
	}

	// adding the same product merges quantities
	code, body = do(app, "POST", "/cart/add", `{"productId":1,"quantity":2}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for merge, got %d", code)
	}
	if !strings.Contains(body, `"quantity":3`) {
		t.Fatalf("expected merged quantity 3, got %s", body)
	}

	// unknown product is a 404
	code, _ = do(app, "POST", "/cart/add", `{"productId":99}`)
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", code)
	}

	// negative quantity is a 400
	code, _ = do(app, "POST", "/cart/add", `{"productId":1,"quantity":-2}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for negative quantity, got %d", code)
	}
}

func TestCartQuantityEndpoints(t *testing.T) {
	app := makeCartApp(NewHandler(seededService()))
	do(app, "POST", "/cart/add", `{"productId":2,"quantity":2}`)

	code, body := do(app, "POST", "/cart/increase/2", "")
	if code != fiber.StatusOK || !strings.Contains(body, `"quantity":3`) {
		t.Fatalf("expected quantity 3 after increase, got %d: %s", code, body)
	}

	code, body = do(app, "POST", "/cart/decrease/2", "")
	if code != fiber.StatusOK || !strings.Contains(body, `"quantity":2`) {
		t.Fatalf("expected quantity 2 after decrease, got %d: %s", code, body)
	}

	// decreasing to zero removes the line
	do(app, "POST", "/cart/decrease/2", "")
	code, body = do(app, "POST", "/cart/decrease/2", "")
	if code != fiber.StatusOK || strings.Contains(body, `"quantity"`) {
		t.Fatalf("expected line removed at zero, got %d: %s", code, body)
	}

	// adjusting an absent line is a 404
	code, _ = do(app, "POST", "/cart/increase/1", "")
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for absent line, got %d", code)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	app := makeCartApp(NewHandler(seededService()))
	do(app, "POST", "/cart/add", `{"productId":1}`)
	do(app, "POST", "/cart/add", `{"productId":2}`)

	code, body := do(app, "DELETE", "/cart/1", "")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for remove, got %d", code)
	}
	if strings.Contains(body, "Curing light") {
		t.Fatalf("removed product still present: %s", body)
	}

	code, _ = do(app, "DELETE", "/cart/1", "")
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for double remove, got %d", code)
	}

	code, body = do(app, "DELETE", "/cart/clear", "")
	if code != fiber.StatusOK || !strings.Contains(body, `"items":[]`) {
		t.Fatalf("expected cleared cart, got %d: %s", code, body)
	}
}

func TestCartSkipsDeletedProducts(t *testing.T) {
	products := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Curing light", Description: "LED", Category: "equipment",
			Price: decimal.NewFromInt(100), Stock: 5},
	})
	catalog := product.NewService(products)
	service := NewService(NewInMemoryRepository(), catalog)

	if _, err := service.AddItem(42, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := catalog.Delete(1); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	cart, err := service.GetCart(42)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected deleted product dropped from view, got %+v", cart.Items)
	}
}
