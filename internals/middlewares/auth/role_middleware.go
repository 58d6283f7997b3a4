package middleware

import (
	"github.com/gofiber/fiber/v2"

	helper "hostelku_backend/internals/helpers"
)

// RequireRoles rejects requests whose JWT role is not in the allow list.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := helper.GetRole(c)
		if role == "" {
			return fiber.NewError(fiber.StatusForbidden, "Role not found")
		}
		if _, ok := allowed[role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		return c.Next()
	}
}
