// Package middleware contains the fiber middleware for the v1 API.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ventureforge/forge/internal/services"
)

// ownerIDKey is the locals key carrying the authenticated user's ID
const ownerIDKey = "owner_id"

// Auth returns a middleware that validates the Bearer token and stores the
// caller's user ID in the request locals.
func Auth(users *services.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"slug":  "unauthorized",
				"error": "missing bearer token",
			})
		}

		userID, err := users.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"slug":  "unauthorized",
				"error": "invalid token",
			})
		}

		c.Locals(ownerIDKey, userID)
		return c.Next()
	}
}

// OwnerID returns the authenticated user's ID from the request locals. It is
// zero when the request did not pass the auth middleware.
func OwnerID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(ownerIDKey).(uint); ok {
		return id
	}
	return 0
}
