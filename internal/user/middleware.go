package user

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// OptionalAuth parses a Bearer token when one is present and stores it in
// c.Locals("user"), the same slot jwtware uses. Requests without a token (or
// with a bad one) pass through as guests; routes that accept both users and
// anonymous sessions sit behind this instead of the mandatory JWT middleware.
func OptionalAuth(jwtSecret string) fiber.Handler {
	secret := []byte(jwtSecret)
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if strings.HasPrefix(auth, "Bearer ") {
			tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err == nil && tok.Valid {
				c.Locals("user", tok)
			}
		}
		return c.Next()
	}
}

// RequireAdmin gates the back-office routes on the role claim. It assumes a
// JWT middleware already ran and rejected unauthenticated requests.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := c.Locals("user")
		tok, ok := u.(*jwt.Token)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		if role, _ := claims["role"].(string); role != RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
		}
		return c.Next()
	}
}
