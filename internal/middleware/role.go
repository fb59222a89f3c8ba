package middleware

import (
	"go-civic/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRole gates a route group to principals holding one of the given roles.
// A principal whose role lookup came back empty lands in the access-denied
// state and is rejected here regardless of which roles are listed.
func RequireRole(skipAuth bool, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return c.Next()
		}

		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		for _, role := range roles {
			if claims.Role == role && claims.Role != "" {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: Insufficient role",
		})
	}
}
