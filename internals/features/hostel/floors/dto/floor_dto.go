package dto

import (
	"github.com/google/uuid"

	model "hostelku_backend/internals/features/hostel/floors/model"
)

type CreateFloorRequest struct {
	FloorBuildingID uuid.UUID `json:"floor_building_id" validate:"required"`
	FloorNumber     int       `json:"floor_number" validate:"min=0"`
	FloorName       *string   `json:"floor_name"`
}

func (r *CreateFloorRequest) ToModel(tenantID uuid.UUID) *model.FloorModel {
	return &model.FloorModel{
		FloorTenantID:   tenantID,
		FloorBuildingID: r.FloorBuildingID,
		FloorNumber:     r.FloorNumber,
		FloorName:       r.FloorName,
	}
}

type UpdateFloorRequest struct {
	FloorName *string `json:"floor_name"`
}
