package export

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"

	"github.com/odontools/shop-backend/internal/cart"
	"github.com/odontools/shop-backend/internal/notify"
	"github.com/odontools/shop-backend/internal/product"
	"github.com/odontools/shop-backend/internal/sale"
	"github.com/odontools/shop-backend/internal/user"
)

type nopPublisher struct{}

func (nopPublisher) Publish(notify.Event) {}

func fakeAuth(id int, admin bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := jwt.MapClaims{"user_id": id, "is_admin": admin}
		c.Locals("user", &jwt.Token{Claims: claims})
		return c.Next()
	}
}

// One app wired the way main does it: export routes first, then the
// sale routes with their /sales/:id wildcard.
func makeApp(t *testing.T, id int, admin bool) *fiber.App {
	t.Helper()

	catalog := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Curing light", Description: "LED", Category: "equipment",
			Price: decimal.NewFromInt(100), Stock: 5},
	}))
	carts := cart.NewService(cart.NewInMemoryRepository(), catalog)
	users := user.NewService(user.NewInMemoryRepository(nil))
	buyer, err := users.Register(user.User{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	saleService := sale.NewService(sale.NewInMemoryRepository(), catalog, carts, users, nopPublisher{})
	if _, err := carts.AddItem(buyer.ID, 1, 2); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if _, err := saleService.Checkout(buyer.ID, sale.CheckoutInput{
		PaymentMethod:   "cash",
		ShippingAddress: "Calle Falsa 123",
		ShippingType:    "Cargotrans",
	}); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	app := fiber.New()
	app.Use(fakeAuth(id, admin))
	NewHandler(saleService, users, catalog).RegisterProtectedRoutes(app)
	sale.NewHandler(saleService).RegisterProtectedRoutes(app)
	return app
}

func TestCSVExportRoute(t *testing.T) {
	app := makeApp(t, 1, true)

	res, _ := app.Test(httptest.NewRequest("GET", "/sales/csv-export", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	if cd := res.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("expected attachment disposition, got %q", cd)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "Curing light") {
		t.Fatalf("csv missing product: %s", b)
	}
}

func TestCSVExportRoute_AdminOnly(t *testing.T) {
	app := makeApp(t, 1, false)

	res, _ := app.Test(httptest.NewRequest("GET", "/sales/csv-export", nil))
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", res.StatusCode)
	}
}

func TestOwnCSVExportRoute(t *testing.T) {
	app := makeApp(t, 1, false)

	res, _ := app.Test(httptest.NewRequest("GET", "/sales/user/csv-export", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for own export, got %d", res.StatusCode)
	}

	// a user with no sales gets a 404
	appOther := makeApp(t, 99, false)
	res, _ = appOther.Test(httptest.NewRequest("GET", "/sales/user/csv-export", nil))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for empty export, got %d", res.StatusCode)
	}
}

func TestPDFExportRoute(t *testing.T) {
	app := makeApp(t, 1, true)

	res, _ := app.Test(httptest.NewRequest("GET", "/sales/1/export", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.HasPrefix(string(b), "%PDF") {
		t.Fatalf("body is not a PDF")
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/sales/999/export", nil))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown sale, got %d", res.StatusCode)
	}
}
