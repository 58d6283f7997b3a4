package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	buildingModel "hostelku_backend/internals/features/hostel/buildings/model"
	dto "hostelku_backend/internals/features/hostel/floors/dto"
	model "hostelku_backend/internals/features/hostel/floors/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	helper "hostelku_backend/internals/helpers"
)

type FloorController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewFloorController(db *gorm.DB) *FloorController {
	return &FloorController{DB: db, Validator: validator.New()}
}

// Create adds a floor under a building and bumps the building's floor
// counter in the same transaction.
func (ctl *FloorController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var req dto.CreateFloorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	floor := req.ToModel(tenantID)

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		var building buildingModel.BuildingModel
		if err := tx.
			Where("building_id = ? AND building_tenant_id = ?", req.FloorBuildingID, tenantID).
			First(&building).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Building not found")
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.FloorModel{}).
			Where("floor_building_id = ? AND floor_number = ?", req.FloorBuildingID, req.FloorNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Floor number already exists in this building")
		}

		if err := tx.Create(floor).Error; err != nil {
			return err
		}
		return tx.Model(&buildingModel.BuildingModel{}).
			Where("building_id = ?", building.BuildingID).
			UpdateColumn("building_total_floors", gorm.Expr("building_total_floors + 1")).Error
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		log.Println("[ERROR] Failed to create floor:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create floor")
	}

	return helper.JsonCreated(c, "Floor created", floor)
}

func (ctl *FloorController) ListByBuilding(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	buildingID, err := uuid.Parse(strings.TrimSpace(c.Params("building_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid building id")
	}

	var floors []model.FloorModel
	if err := ctl.DB.
		Where("floor_building_id = ? AND floor_tenant_id = ?", buildingID, tenantID).
		Order("floor_number ASC").
		Find(&floors).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch floors")
	}
	return helper.JsonOK(c, "Floors fetched", floors)
}

func (ctl *FloorController) Update(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid floor id")
	}

	var floor model.FloorModel
	if err := ctl.DB.
		Where("floor_id = ? AND floor_tenant_id = ?", id, tenantID).
		First(&floor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Floor not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch floor")
	}

	var req dto.UpdateFloorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.FloorName != nil {
		floor.FloorName = req.FloorName
	}
	if err := ctl.DB.Save(&floor).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update floor")
	}
	return helper.JsonUpdated(c, "Floor updated", floor)
}

// Delete refuses while rooms still exist on the floor.
func (ctl *FloorController) Delete(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid floor id")
	}

	var floor model.FloorModel
	if err := ctl.DB.
		Where("floor_id = ? AND floor_tenant_id = ?", id, tenantID).
		First(&floor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Floor not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch floor")
	}

	var rooms int64
	if err := ctl.DB.Model(&roomModel.RoomModel{}).
		Where("room_floor_id = ?", id).
		Count(&rooms).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete floor")
	}
	if rooms > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot delete floor with existing rooms")
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&floor).Error; err != nil {
			return err
		}
		return tx.Model(&buildingModel.BuildingModel{}).
			Where("building_id = ? AND building_total_floors > 0", floor.FloorBuildingID).
			UpdateColumn("building_total_floors", gorm.Expr("building_total_floors - 1")).Error
	})
	if err != nil {
		log.Println("[ERROR] Failed to delete floor:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete floor")
	}
	return helper.JsonDeleted(c, "Floor deleted", fiber.Map{"floor_id": floor.FloorID})
}
