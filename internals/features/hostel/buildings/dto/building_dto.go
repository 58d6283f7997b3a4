// file: internals/features/hostel/buildings/dto/building_dto.go
package dto

import (
	"github.com/google/uuid"

	model "hostelku_backend/internals/features/hostel/buildings/model"
)

type CreateBuildingRequest struct {
	BuildingName    string  `json:"building_name" validate:"required"`
	BuildingCode    string  `json:"building_code" validate:"required,max=40"`
	BuildingAddress *string `json:"building_address"`
}

func (r *CreateBuildingRequest) ToModel(tenantID uuid.UUID) *model.BuildingModel {
	return &model.BuildingModel{
		BuildingTenantID: tenantID,
		BuildingName:     r.BuildingName,
		BuildingCode:     r.BuildingCode,
		BuildingAddress:  r.BuildingAddress,
	}
}

type UpdateBuildingRequest struct {
	BuildingName    *string `json:"building_name"`
	BuildingCode    *string `json:"building_code" validate:"omitempty,max=40"`
	BuildingAddress *string `json:"building_address"`
}

func (r *UpdateBuildingRequest) ApplyTo(b *model.BuildingModel) {
	if r.BuildingName != nil {
		b.BuildingName = *r.BuildingName
	}
	if r.BuildingCode != nil {
		b.BuildingCode = *r.BuildingCode
	}
	if r.BuildingAddress != nil {
		b.BuildingAddress = r.BuildingAddress
	}
}
