// file: internals/features/complaints/routes/complaint_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	complaintController "hostelku_backend/internals/features/complaints/controller"
)

func ComplaintStudentRoutes(student fiber.Router, db *gorm.DB) {
	ctl := complaintController.NewComplaintController(db)

	c := student.Group("/complaints")
	c.Post("/", ctl.Create)
	c.Get("/", ctl.ListMine)
	c.Get("/:id", ctl.GetByID)
	c.Post("/:id/comments", ctl.AddComment)
}

func ComplaintAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := complaintController.NewComplaintController(db)

	c := admin.Group("/complaints")
	c.Get("/stats", ctl.Stats)
	c.Get("/", ctl.List)
	c.Get("/:id", ctl.GetByID)
	c.Put("/:id/status", ctl.UpdateStatus)
	c.Post("/:id/comments", ctl.AddComment)
}
