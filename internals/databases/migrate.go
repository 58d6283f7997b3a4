// file: internals/databases/migrate.go
package database

import (
	"log"

	announcementModel "hostelku_backend/internals/features/announcements/model"
	complaintModel "hostelku_backend/internals/features/complaints/model"
	allocationModel "hostelku_backend/internals/features/hostel/allocations/model"
	buildingModel "hostelku_backend/internals/features/hostel/buildings/model"
	floorModel "hostelku_backend/internals/features/hostel/floors/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	duesModel "hostelku_backend/internals/features/payment/dues/model"
	feeModel "hostelku_backend/internals/features/payment/fees/model"
	paymentModel "hostelku_backend/internals/features/payment/payments/model"
	tenantModel "hostelku_backend/internals/features/tenants/model"
)

// MigrateAll runs GORM AutoMigrate for every table. Gated behind
// DB_AUTOMIGRATE so production can rely on reviewed SQL instead.
func MigrateAll() {
	err := DB.AutoMigrate(
		&tenantModel.TenantModel{},
		&studentModel.StudentModel{},
		&buildingModel.BuildingModel{},
		&floorModel.FloorModel{},
		&roomModel.RoomModel{},
		&allocationModel.AllocationModel{},
		&feeModel.FeeStructureModel{},
		&duesModel.PaymentDueModel{},
		&paymentModel.PaymentModel{},
		&complaintModel.ComplaintModel{},
		&complaintModel.ComplaintCommentModel{},
		&announcementModel.AnnouncementModel{},
	)
	if err != nil {
		log.Fatalf("[ERROR] AutoMigrate failed: %v", err)
	}
	log.Println("[INFO] AutoMigrate done")
}
