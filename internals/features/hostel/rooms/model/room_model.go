package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	buildingModel "hostelku_backend/internals/features/hostel/buildings/model"
	floorModel "hostelku_backend/internals/features/hostel/floors/model"
)

const (
	RoomStatusAvailable   = "AVAILABLE"
	RoomStatusFull        = "FULL"
	RoomStatusMaintenance = "MAINTENANCE"
)

const (
	RoomTypeSingle = "SINGLE"
	RoomTypeDouble = "DOUBLE"
	RoomTypeTriple = "TRIPLE"
	RoomTypeDorm   = "DORM"
)

// Invariant: 0 <= room_occupied <= room_capacity, and room_status is FULL
// exactly when occupied == capacity (unless the room is in MAINTENANCE).
// The occupied counter is only ever mutated inside the allocation
// transaction, under a row lock on this row.
type RoomModel struct {
	RoomID         uuid.UUID `gorm:"column:room_id;type:uuid;primaryKey" json:"room_id"`
	RoomTenantID   uuid.UUID `gorm:"column:room_tenant_id;type:uuid;not null;uniqueIndex:uq_rooms_tenant_number" json:"room_tenant_id"`
	RoomBuildingID uuid.UUID `gorm:"column:room_building_id;type:uuid;not null;index" json:"room_building_id"`
	RoomFloorID    uuid.UUID `gorm:"column:room_floor_id;type:uuid;not null;index" json:"room_floor_id"`

	// Room numbers are unique per tenant, not per building.
	RoomNumber string `gorm:"column:room_number;type:varchar(20);not null;uniqueIndex:uq_rooms_tenant_number" json:"room_number"`
	RoomType   string `gorm:"column:room_type;type:varchar(20);not null" json:"room_type"`

	RoomCapacity int    `gorm:"column:room_capacity;not null" json:"room_capacity"`
	RoomOccupied int    `gorm:"column:room_occupied;not null;default:0" json:"room_occupied"`
	RoomStatus   string `gorm:"column:room_status;type:varchar(20);not null;default:AVAILABLE" json:"room_status"`

	RoomCreatedAt time.Time      `gorm:"column:room_created_at;autoCreateTime" json:"room_created_at"`
	RoomUpdatedAt time.Time      `gorm:"column:room_updated_at;autoUpdateTime" json:"room_updated_at"`
	RoomDeletedAt gorm.DeletedAt `gorm:"column:room_deleted_at;index" json:"room_deleted_at,omitempty"`

	Floor    *floorModel.FloorModel       `gorm:"foreignKey:RoomFloorID;references:FloorID" json:"floor,omitempty"`
	Building *buildingModel.BuildingModel `gorm:"foreignKey:RoomBuildingID;references:BuildingID" json:"building,omitempty"`
}

func (RoomModel) TableName() string { return "rooms" }

func (m *RoomModel) BeforeCreate(_ *gorm.DB) error {
	if m.RoomID == uuid.Nil {
		m.RoomID = uuid.New()
	}
	return nil
}
