// file: internals/features/hostel/routes/hostel_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	allocationController "hostelku_backend/internals/features/hostel/allocations/controller"
	buildingController "hostelku_backend/internals/features/hostel/buildings/controller"
	floorController "hostelku_backend/internals/features/hostel/floors/controller"
	roomController "hostelku_backend/internals/features/hostel/rooms/controller"
	studentController "hostelku_backend/internals/features/hostel/students/controller"
)

// HostelAdminRoutes registers the inventory and allocation endpoints under
// the admin group.
func HostelAdminRoutes(admin fiber.Router, db *gorm.DB) {
	buildings := buildingController.NewBuildingController(db)
	floors := floorController.NewFloorController(db)
	rooms := roomController.NewRoomController(db)
	allocations := allocationController.NewAllocationController(db)
	students := studentController.NewStudentController(db)

	b := admin.Group("/buildings")
	b.Post("/", buildings.Create)
	b.Get("/", buildings.List)
	b.Get("/:id", buildings.GetByID)
	b.Put("/:id", buildings.Update)
	b.Delete("/:id", buildings.Delete)
	b.Get("/:building_id/floors", floors.ListByBuilding)

	f := admin.Group("/floors")
	f.Post("/", floors.Create)
	f.Put("/:id", floors.Update)
	f.Delete("/:id", floors.Delete)

	r := admin.Group("/rooms")
	r.Post("/", rooms.Create)
	r.Post("/bulk", rooms.BulkCreate)
	r.Get("/", rooms.List)
	r.Get("/occupancy", rooms.Occupancy)
	r.Get("/:id", rooms.GetByID)
	r.Put("/:id", rooms.Update)
	r.Delete("/:id", rooms.Delete)

	a := admin.Group("/allocations")
	a.Post("/", allocations.Create)
	a.Get("/", allocations.List)
	a.Put("/:id/vacate", allocations.Vacate)

	s := admin.Group("/students")
	s.Post("/", students.Create)
	s.Get("/", students.List)
	s.Get("/:id", students.GetByID)
	s.Put("/:id", students.Update)
}
