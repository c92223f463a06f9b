package user

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Handler struct {
	service   *Service
	jwtSecret string
}

func NewHandler(service *Service, jwtSecret string) *Handler {
	return &Handler{service: service, jwtSecret: jwtSecret}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/auth/register", h.register)
	app.Post("/auth/login", h.login)
	app.Post("/auth/logout", h.logout)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/users", h.getUsers)
	app.Get("/users/me", h.me)
	// profile must be registered before /users/:id so it is not captured
	// as an id parameter
	app.Put("/users/profile", h.updateProfile)
	app.Get("/users/:id", h.getUser)
	app.Put("/users/:id", h.updateUser)
	app.Delete("/users/:id", RequireAdmin, h.deleteUser)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "name, email and password are required"})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Register(User{
		Name:      payload.Name,
		Email:     payload.Email,
		Password:  payload.Password,
		IsAdmin:   payload.IsAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if err == ErrEmailExists {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "user already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "user": Sanitize(created)})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	u, err := h.service.Authenticate(payload.Email, payload.Password)
	switch err {
	case nil:
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "user not found"})
	case ErrInvalidCredentials:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "incorrect password"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	identity := Identity{ID: u.ID, Email: u.Email, Name: u.Name, IsAdmin: u.IsAdmin}
	claims := identity.Claims()
	claims["exp"] = time.Now().Add(24 * time.Hour).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "failed to generate token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    signed,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{"success": true, "token": signed, "user": Sanitize(u)})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"success": true, "message": "logged out"})
}

func (h *Handler) me(c *fiber.Ctx) error {
	identity, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	return c.JSON(fiber.Map{"success": true, "user": fiber.Map{
		"id":      identity.ID,
		"email":   identity.Email,
		"name":    identity.Name,
		"isAdmin": identity.IsAdmin,
	}})
}

func (h *Handler) getUsers(c *fiber.Ctx) error {
	users, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	response := make([]User, 0, len(users))
	for _, u := range users {
		response = append(response, Sanitize(u))
	}
	return c.JSON(fiber.Map{"success": true, "users": response})
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	u, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "user not found"})
	}

	return c.JSON(fiber.Map{"success": true, "user": Sanitize(u)})
}

type profileUpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	Password  *string `json:"password,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Biography *string `json:"biography,omitempty"`
	Image     *string `json:"image,omitempty"`
}

// updateProfile applies a partial update to the authenticated user.
// Email and admin flag cannot be changed here.
func (h *Handler) updateProfile(c *fiber.Ctx) error {
	identity, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	existing, err := h.service.GetByID(identity.ID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "user not found"})
	}

	payload := new(profileUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	existing.Password = ""
	if payload.Name != nil {
		existing.Name = *payload.Name
	}
	if payload.Password != nil {
		existing.Password = *payload.Password
	}
	if payload.Phone != nil {
		existing.Phone = *payload.Phone
	}
	if payload.Address != nil {
		existing.Address = *payload.Address
	}
	if payload.Biography != nil {
		existing.Biography = *payload.Biography
	}
	if payload.Image != nil {
		existing.Image = *payload.Image
	}
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	updated, err := h.service.Update(identity.ID, existing)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "user": Sanitize(updated)})
}

// updateUser lets an admin edit any account and a user edit their own.
func (h *Handler) updateUser(c *fiber.Ctx) error {
	identity, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}
	if !identity.IsAdmin && identity.ID != id {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "access denied"})
	}

	update := new(User)
	if err := c.BodyParser(update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if !identity.IsAdmin {
		update.IsAdmin = false
	}
	update.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	updated, err := h.service.Update(id, *update)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "user": Sanitize(updated)})
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	if err := h.service.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "user not found"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "user deleted"})
}
