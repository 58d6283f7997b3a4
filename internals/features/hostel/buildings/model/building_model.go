package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Building owns floors; floors own rooms. total_* and occupied_rooms are
// denormalized counters, mutated only inside the transactions that also
// write the owning row (floor create, room create, allocation change).
type BuildingModel struct {
	BuildingID       uuid.UUID `gorm:"column:building_id;type:uuid;primaryKey" json:"building_id"`
	BuildingTenantID uuid.UUID `gorm:"column:building_tenant_id;type:uuid;not null;uniqueIndex:uq_buildings_tenant_code" json:"building_tenant_id"`

	BuildingName    string  `gorm:"column:building_name;type:text;not null" json:"building_name"`
	BuildingCode    string  `gorm:"column:building_code;type:varchar(40);not null;uniqueIndex:uq_buildings_tenant_code" json:"building_code"`
	BuildingAddress *string `gorm:"column:building_address;type:text" json:"building_address,omitempty"`

	BuildingTotalFloors   int `gorm:"column:building_total_floors;not null;default:0" json:"building_total_floors"`
	BuildingTotalRooms    int `gorm:"column:building_total_rooms;not null;default:0" json:"building_total_rooms"`
	BuildingOccupiedRooms int `gorm:"column:building_occupied_rooms;not null;default:0" json:"building_occupied_rooms"`

	BuildingCreatedAt time.Time      `gorm:"column:building_created_at;autoCreateTime" json:"building_created_at"`
	BuildingUpdatedAt time.Time      `gorm:"column:building_updated_at;autoUpdateTime" json:"building_updated_at"`
	BuildingDeletedAt gorm.DeletedAt `gorm:"column:building_deleted_at;index" json:"building_deleted_at,omitempty"`
}

func (BuildingModel) TableName() string { return "buildings" }

func (m *BuildingModel) BeforeCreate(_ *gorm.DB) error {
	if m.BuildingID == uuid.Nil {
		m.BuildingID = uuid.New()
	}
	return nil
}
