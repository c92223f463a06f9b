package user

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func makeAuthApp(t *testing.T) (*fiber.App, *Handler) {
	t.Helper()
	repo := NewInMemoryRepository(nil)
	handler := NewHandler(NewService(repo), testSecret)
	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	return app, handler
}

func postJSON(app *fiber.App, path, body string) (int, map[string]any) {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	b, _ := io.ReadAll(res.Body)
	var payload map[string]any
	_ = json.Unmarshal(b, &payload)
	return res.StatusCode, payload
}

func TestRegisterEndpoint(t *testing.T) {
	app, _ := makeAuthApp(t)

	code, payload := postJSON(app, "/auth/register", `{"name":"Ana","email":"ana@example.com","password":"secret123"}`)
	if code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", code, payload)
	}
	userObj, ok := payload["user"].(map[string]any)
	if !ok {
		t.Fatalf("response missing user object: %v", payload)
	}
	if _, present := userObj["password"]; present {
		t.Fatalf("password leaked in response: %v", userObj)
	}

	// duplicate email rejected
	code, payload = postJSON(app, "/auth/register", `{"name":"Ana","email":"ana@example.com","password":"other"}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", code)
	}
	if payload["message"] != "user already exists" {
		t.Fatalf("unexpected message %v", payload["message"])
	}

	// missing fields rejected
	code, _ = postJSON(app, "/auth/register", `{"email":"x@example.com"}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	app, _ := makeAuthApp(t)
	postJSON(app, "/auth/register", `{"name":"Ana","email":"ana@example.com","password":"secret123"}`)

	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	b, _ := io.ReadAll(res.Body)
	var payload map[string]any
	_ = json.Unmarshal(b, &payload)
	tokenStr, _ := payload["token"].(string)
	if tokenStr == "" {
		t.Fatalf("login response missing token: %v", payload)
	}

	// cookie for browser clients
	var cookie string
	for _, c := range res.Cookies() {
		if c.Name == "token" {
			cookie = c.Value
			if !c.HttpOnly {
				t.Fatalf("token cookie must be HttpOnly")
			}
		}
	}
	if cookie == "" {
		t.Fatalf("login did not set token cookie")
	}

	// token carries identity claims signed with our secret
	tok, err := jwt.Parse(tokenStr, func(*jwt.Token) (any, error) { return []byte(testSecret), nil })
	if err != nil || !tok.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["email"] != "ana@example.com" {
		t.Fatalf("unexpected email claim %v", claims["email"])
	}
	if claims["is_admin"] != false {
		t.Fatalf("expected is_admin false, got %v", claims["is_admin"])
	}

	// unknown email is 404, wrong password 400
	code, _ := postJSON(app, "/auth/login", `{"email":"nobody@example.com","password":"secret123"}`)
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown email, got %d", code)
	}
	code, _ = postJSON(app, "/auth/login", `{"email":"ana@example.com","password":"wrong"}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for wrong password, got %d", code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	app, _ := makeAuthApp(t)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	for _, c := range res.Cookies() {
		if c.Name == "token" && c.Value != "" {
			t.Fatalf("logout did not blank the token cookie")
		}
	}
}

func fakeAuth(identity Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := identity.Claims()
		c.Locals("user", &jwt.Token{Claims: claims})
		return c.Next()
	}
}

func TestProfileUpdate_PartialFields(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)
	created, err := service.Register(User{Name: "Ana", Email: "ana@example.com", Password: "secret123", Phone: "111"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	handler := NewHandler(service, testSecret)
	app := fiber.New()
	app.Use(fakeAuth(Identity{ID: created.ID, Email: created.Email, Name: created.Name}))
	handler.RegisterProtectedRoutes(app)

	req := httptest.NewRequest("PUT", "/users/profile", strings.NewReader(`{"phone":"222"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	after, err := service.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Phone != "222" {
		t.Fatalf("phone not updated: %+v", after)
	}
	if after.Name != "Ana" {
		t.Fatalf("name should be untouched: %+v", after)
	}
	if after.Password != created.Password {
		t.Fatalf("password changed by partial update")
	}
}

func TestDeleteUser_AdminOnly(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)
	victim, _ := service.Register(User{Name: "Victim", Email: "v@example.com", Password: "pw123456"})

	handler := NewHandler(service, testSecret)

	// non-admin gets 403
	app := fiber.New()
	app.Use(fakeAuth(Identity{ID: 99, IsAdmin: false}))
	handler.RegisterProtectedRoutes(app)
	res, _ := app.Test(httptest.NewRequest("DELETE", "/users/1", nil))
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", res.StatusCode)
	}

	// admin succeeds
	appAdmin := fiber.New()
	appAdmin.Use(fakeAuth(Identity{ID: 1, IsAdmin: true}))
	handler.RegisterProtectedRoutes(appAdmin)
	res, _ = appAdmin.Test(httptest.NewRequest("DELETE", "/users/1", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d", res.StatusCode)
	}
	if _, err := service.GetByID(victim.ID); err != ErrNotFound {
		t.Fatalf("expected user gone, got %v", err)
	}
}
