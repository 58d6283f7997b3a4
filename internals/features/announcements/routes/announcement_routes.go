// file: internals/features/announcements/routes/announcement_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	announcementController "hostelku_backend/internals/features/announcements/controller"
)

func AnnouncementStudentRoutes(student fiber.Router, db *gorm.DB) {
	ctl := announcementController.NewAnnouncementController(db)
	student.Get("/announcements", ctl.ListForStudents)
}

func AnnouncementAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := announcementController.NewAnnouncementController(db)

	a := admin.Group("/announcements")
	a.Post("/", ctl.Create)
	a.Get("/", ctl.List)
	a.Put("/:id", ctl.Update)
	a.Delete("/:id", ctl.Delete)
}
