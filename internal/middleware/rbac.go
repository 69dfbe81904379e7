package middleware

import (
	"github.com/gofiber/fiber/v2"

	"retrouvaille/internal/domain"
)

func RequireRole(role domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("User not authenticated")
		}

		if user.Role != role {
			return Forbidden("Insufficient permissions")
		}

		return c.Next()
	}
}
