package product

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func fakeAuth(id int, admin bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := jwt.MapClaims{"user_id": id, "is_admin": admin}
		c.Locals("user", &jwt.Token{Claims: claims})
		return c.Next()
	}
}

func makeProductApp(admin bool) *fiber.App {
	handler := NewHandler(NewService(seedRepo()))
	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	app.Use(fakeAuth(1, admin))
	handler.RegisterProtectedRoutes(app)
	return app
}

func TestPublicProductRoutes(t *testing.T) {
	app := makeProductApp(false)

	res, _ := app.Test(httptest.NewRequest("GET", "/products", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "Curing light") {
		t.Fatalf("list missing seeded product: %s", b)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/products/1", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/products/999", nil))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestCreateProduct_AdminOnly(t *testing.T) {
	body := `{"name":"Probe","description":"Dental probe","category":"instruments","price":"12.50","stock":10}`

	app := makeProductApp(false)
	req := httptest.NewRequest("POST", "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", res.StatusCode)
	}

	appAdmin := makeProductApp(true)
	req = httptest.NewRequest("POST", "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ = appAdmin.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201, got %d: %s", res.StatusCode, b)
	}
}

func TestCreateProduct_Invalid(t *testing.T) {
	app := makeProductApp(true)

	req := httptest.NewRequest("POST", "/products", strings.NewReader(`{"name":"Probe","description":"d","category":"c","price":"-5","stock":1}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for negative price, got %d", res.StatusCode)
	}
}

func TestDeleteProduct(t *testing.T) {
	app := makeProductApp(true)

	res, _ := app.Test(httptest.NewRequest("DELETE", "/products/2", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	res, _ = app.Test(httptest.NewRequest("DELETE", "/products/2", nil))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for double delete, got %d", res.StatusCode)
	}
}
