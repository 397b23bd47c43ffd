package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the Bearer token and stores the caller's profile
// ID in Locals("user_id"). Tokens are HS256 with the subject claim holding
// the profile ID.
func AuthMiddleware(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return errUnauthorized(c, "missing Authorization header")
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return errUnauthorized(c, "Authorization header must be a Bearer token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return errUnauthorized(c, "invalid or expired token")
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return errUnauthorized(c, "token has no subject")
		}

		c.Locals("user_id", sub)
		return c.Next()
	}
}

// userID returns the authenticated profile ID set by AuthMiddleware.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
