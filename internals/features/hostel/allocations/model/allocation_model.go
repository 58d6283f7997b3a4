package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
)

const (
	AllocationStatusActive    = "ACTIVE"
	AllocationStatusVacated   = "VACATED"
	AllocationStatusCancelled = "CANCELLED"
)

// A student has at most one ACTIVE allocation at a time. The check happens
// under the same row lock that guards the room occupancy counter.
type AllocationModel struct {
	AllocationID        uuid.UUID `gorm:"column:allocation_id;type:uuid;primaryKey" json:"allocation_id"`
	AllocationTenantID  uuid.UUID `gorm:"column:allocation_tenant_id;type:uuid;not null;index" json:"allocation_tenant_id"`
	AllocationStudentID uuid.UUID `gorm:"column:allocation_student_id;type:uuid;not null;index" json:"allocation_student_id"`
	AllocationRoomID    uuid.UUID `gorm:"column:allocation_room_id;type:uuid;not null;index" json:"allocation_room_id"`

	AllocationStatus string `gorm:"column:allocation_status;type:varchar(20);not null;default:ACTIVE" json:"allocation_status"`

	AllocationAllocatedAt time.Time  `gorm:"column:allocation_allocated_at;not null" json:"allocation_allocated_at"`
	AllocationVacatedAt   *time.Time `gorm:"column:allocation_vacated_at" json:"allocation_vacated_at,omitempty"`

	AllocationCreatedAt time.Time `gorm:"column:allocation_created_at;autoCreateTime" json:"allocation_created_at"`
	AllocationUpdatedAt time.Time `gorm:"column:allocation_updated_at;autoUpdateTime" json:"allocation_updated_at"`

	Room    *roomModel.RoomModel       `gorm:"foreignKey:AllocationRoomID;references:RoomID" json:"room,omitempty"`
	Student *studentModel.StudentModel `gorm:"foreignKey:AllocationStudentID;references:StudentID" json:"student,omitempty"`
}

func (AllocationModel) TableName() string { return "room_allocations" }

func (m *AllocationModel) BeforeCreate(_ *gorm.DB) error {
	if m.AllocationID == uuid.Nil {
		m.AllocationID = uuid.New()
	}
	return nil
}
