// file: internals/features/tenants/routes/tenant_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tenantController "hostelku_backend/internals/features/tenants/controller"
)

func TenantAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := tenantController.NewTenantController(db)

	t := admin.Group("/tenants")
	t.Post("/", ctl.Create)
	t.Get("/me", ctl.Me)
}
