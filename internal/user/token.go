package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Identity is the set of claims carried by every signed token.
type Identity struct {
	ID      int
	Email   string
	Name    string
	IsAdmin bool
}

// Claims builds the MapClaims for a signed token. exp is added by the
// caller so token lifetime stays in one place.
func (id Identity) Claims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":  id.ID,
		"email":    id.Email,
		"name":     id.Name,
		"is_admin": id.IsAdmin,
	}
}

// IdentityFromCtx extracts the identity from the JWT token that the
// auth middleware stored in c.Locals("user"). Several packages need
// this, so it lives here for reuse.
func IdentityFromCtx(c *fiber.Ctx) (Identity, error) {
	u := c.Locals("user")
	if u == nil {
		return Identity{}, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return Identity{}, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fiber.ErrUnauthorized
	}

	id, err := intClaim(claims, "user_id")
	if err != nil {
		return Identity{}, err
	}

	out := Identity{ID: id}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		out.Name = v
	}
	if v, ok := claims["is_admin"].(bool); ok {
		out.IsAdmin = v
	}
	return out, nil
}

// GetUserIDFromCtx returns just the user id claim.
func GetUserIDFromCtx(c *fiber.Ctx) (int, error) {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return 0, err
	}
	return id.ID, nil
}

// RequireAdmin rejects requests whose token does not carry is_admin.
func RequireAdmin(c *fiber.Ctx) error {
	id, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	if !id.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "access denied, admin only"})
	}
	return c.Next()
}

func intClaim(claims jwt.MapClaims, key string) (int, error) {
	raw, ok := claims[key]
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, fiber.ErrUnauthorized
		}
		return id, nil
	default:
		return 0, fiber.ErrUnauthorized
	}
}
