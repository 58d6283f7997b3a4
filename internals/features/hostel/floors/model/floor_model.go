package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	buildingModel "hostelku_backend/internals/features/hostel/buildings/model"
)

type FloorModel struct {
	FloorID         uuid.UUID `gorm:"column:floor_id;type:uuid;primaryKey" json:"floor_id"`
	FloorTenantID   uuid.UUID `gorm:"column:floor_tenant_id;type:uuid;not null;index" json:"floor_tenant_id"`
	FloorBuildingID uuid.UUID `gorm:"column:floor_building_id;type:uuid;not null;uniqueIndex:uq_floors_building_number" json:"floor_building_id"`

	FloorNumber int     `gorm:"column:floor_number;not null;uniqueIndex:uq_floors_building_number" json:"floor_number"`
	FloorName   *string `gorm:"column:floor_name;type:text" json:"floor_name,omitempty"`

	FloorTotalRooms    int `gorm:"column:floor_total_rooms;not null;default:0" json:"floor_total_rooms"`
	FloorOccupiedRooms int `gorm:"column:floor_occupied_rooms;not null;default:0" json:"floor_occupied_rooms"`

	FloorCreatedAt time.Time      `gorm:"column:floor_created_at;autoCreateTime" json:"floor_created_at"`
	FloorUpdatedAt time.Time      `gorm:"column:floor_updated_at;autoUpdateTime" json:"floor_updated_at"`
	FloorDeletedAt gorm.DeletedAt `gorm:"column:floor_deleted_at;index" json:"floor_deleted_at,omitempty"`

	Building *buildingModel.BuildingModel `gorm:"foreignKey:FloorBuildingID;references:BuildingID" json:"building,omitempty"`
}

func (FloorModel) TableName() string { return "floors" }

func (m *FloorModel) BeforeCreate(_ *gorm.DB) error {
	if m.FloorID == uuid.Nil {
		m.FloorID = uuid.New()
	}
	return nil
}
