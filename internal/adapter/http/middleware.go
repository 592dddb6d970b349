package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware returns a middleware that validates the bearer token from
// the Authorization header. If the token is missing or invalid, it
// responds 401. If valid, it passes the request through unchanged.
func AuthMiddleware(validToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "missing authorization header")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token != validToken {
			return unauthorized(c, "invalid token")
		}

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{
		Error: message,
		Code:  fiber.StatusUnauthorized,
	})
}
