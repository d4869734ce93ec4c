package middleware

import (
	"context"

	"parcel-delivery/types"

	"github.com/gofiber/fiber/v2"
)

// RoleLookup resolves the role stored for an email. The route wiring
// supplies a users-collection lookup; tests supply a fake.
type RoleLookup func(ctx context.Context, email string) (string, error)

// RequireRole gates a route on the caller's stored role being in the
// allow-set. Runs after Authenticated, so the email is already in the
// request context.
func RequireRole(lookup RoleLookup, allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := CallerEmail(c)
		if email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Authorization token missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		role, err := lookup(c.Context(), email)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Message: "Could not resolve caller role",
				Status:  fiber.StatusForbidden,
			})
		}

		for _, r := range allowed {
			if role == r {
				c.Locals("role", role)
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Message: "Insufficient role",
			Status:  fiber.StatusForbidden,
		})
	}
}
