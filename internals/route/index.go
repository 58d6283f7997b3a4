// file: internals/route/index.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"hostelku_backend/internals/configs"
	announcementRoutes "hostelku_backend/internals/features/announcements/routes"
	complaintRoutes "hostelku_backend/internals/features/complaints/routes"
	hostelRoutes "hostelku_backend/internals/features/hostel/routes"
	paymentService "hostelku_backend/internals/features/payment/payments/service"
	paymentRoutes "hostelku_backend/internals/features/payment/routes"
	tenantRoutes "hostelku_backend/internals/features/tenants/routes"
	middleware "hostelku_backend/internals/middlewares/auth"
)

// SetupRoutes mounts the whole API surface.
//
//	/health           liveness, no auth
//	/api/s/...        student endpoints (JWT role student)
//	/api/a/...        admin endpoints   (JWT role admin or warden)
func SetupRoutes(app *fiber.App, db *gorm.DB, gateway paymentService.Gateway) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", middleware.AuthJWT(middleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}))

	student := api.Group("/s", middleware.RequireRoles("student"))
	paymentRoutes.PaymentStudentRoutes(student, db, gateway)
	complaintRoutes.ComplaintStudentRoutes(student, db)
	announcementRoutes.AnnouncementStudentRoutes(student, db)

	admin := api.Group("/a", middleware.RequireRoles("admin", "warden"))
	hostelRoutes.HostelAdminRoutes(admin, db)
	paymentRoutes.PaymentAdminRoutes(admin, db)
	complaintRoutes.ComplaintAdminRoutes(admin, db)
	announcementRoutes.AnnouncementAdminRoutes(admin, db)
	tenantRoutes.TenantAdminRoutes(admin, db)
}
