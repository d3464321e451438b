package middleware

import (
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/authz"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/identity"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired lets the request through only if policy grants the caller
// administrator rights. It must run after JWTProtected.
func AdminRequired(policy authz.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := identity.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !policy.IsAdmin(c.UserContext(), id) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
