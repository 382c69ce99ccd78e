package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/todolist-api/auth"
)

const claimsKey = "claims"

// Auth verifies the token in the Authorization header ("Token <jwt>" or
// "Bearer <jwt>") and stores its claims on the request. When required is
// false a missing or bad token is ignored.
func Auth(tokens *auth.Issuer, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			if required {
				return fiber.ErrUnauthorized
			}
			return c.Next()
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			if required {
				return fiber.ErrUnauthorized
			}
			return c.Next()
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

func extractToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	if scheme != "Token" && scheme != "Bearer" {
		return ""
	}
	return strings.TrimSpace(token)
}

// Claims returns the verified token claims of the request, or nil.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}

// UserID returns the authenticated user id, or "".
func UserID(c *fiber.Ctx) string {
	if claims := Claims(c); claims != nil {
		return claims.ID
	}
	return ""
}
