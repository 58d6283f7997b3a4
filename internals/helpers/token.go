// file: internals/helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys hydrated by the auth middleware. Controllers resolve the
// tenant exclusively through these helpers; request bodies never carry a
// tenant id.
const (
	LocUserID   = "user_id"
	LocTenantID = "tenant_id"
	LocRole     = "role"
)

// GetTenantID returns the tenant from the JWT context, or an error Fiber
// will surface as 401.
func GetTenantID(c *fiber.Ctx) (uuid.UUID, error) {
	if s, ok := c.Locals(LocTenantID).(string); ok {
		if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Tenant context missing")
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	if s, ok := c.Locals(LocUserID).(string); ok {
		if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User context missing")
}

func GetRole(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocRole).(string); ok {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return ""
}

func IsAdmin(c *fiber.Ctx) bool {
	r := GetRole(c)
	return r == "admin" || r == "warden"
}

func IsStudent(c *fiber.Ctx) bool {
	return GetRole(c) == "student"
}
