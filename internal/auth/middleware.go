package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie cookie carrying the session token for browser clients
const SessionCookie = "session_token"

func extractToken(c *fiber.Ctx) (string, bool) {
	header := c.Get("Authorization")
	if header == "" {
		token := c.Cookies(SessionCookie)
		return token, token != ""
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// SessionMiddleware requires a valid session token
func SessionMiddleware(jwtManager *JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := extractToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or malformed session token",
			})
		}

		claims, err := jwtManager.ValidateSessionToken(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "token expired",
					"code":  "TOKEN_EXPIRED",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		c.Locals("email", claims.Email)
		c.Locals("claims", claims)
		return c.Next()
	}
}

// OptionalSessionMiddleware records the session when present and never rejects
func OptionalSessionMiddleware(jwtManager *JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := extractToken(c); ok {
			if claims, err := jwtManager.ValidateSessionToken(token); err == nil {
				c.Locals("email", claims.Email)
				c.Locals("claims", claims)
			}
		}
		return c.Next()
	}
}
