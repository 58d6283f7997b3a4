// file: internals/features/hostel/buildings/controller/building_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/hostel/buildings/dto"
	model "hostelku_backend/internals/features/hostel/buildings/model"
	floorModel "hostelku_backend/internals/features/hostel/floors/model"
	helper "hostelku_backend/internals/helpers"
)

type BuildingController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewBuildingController(db *gorm.DB) *BuildingController {
	return &BuildingController{DB: db, Validator: validator.New()}
}

// ========== Create ==========
func (ctl *BuildingController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var req dto.CreateBuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var count int64
	if err := ctl.DB.Model(&model.BuildingModel{}).
		Where("building_tenant_id = ? AND building_code = ?", tenantID, req.BuildingCode).
		Count(&count).Error; err != nil {
		log.Println("[ERROR] building code lookup failed:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create building")
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Building code already exists")
	}

	b := req.ToModel(tenantID)
	if err := ctl.DB.Create(b).Error; err != nil {
		log.Println("[ERROR] Failed to create building:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create building")
	}
	return helper.JsonCreated(c, "Building created", b)
}

// ========== List ==========
func (ctl *BuildingController) List(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.BuildingModel{}).Where("building_tenant_id = ?", tenantID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch buildings")
	}

	var buildings []model.BuildingModel
	if err := q.Order("building_code ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&buildings).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch buildings")
	}

	return helper.JsonList(c, "Buildings fetched", buildings,
		helper.BuildPagination(total, paging.Page, paging.PerPage))
}

// ========== Detail ==========
func (ctl *BuildingController) GetByID(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid building id")
	}

	var b model.BuildingModel
	if err := ctl.DB.
		Where("building_id = ? AND building_tenant_id = ?", id, tenantID).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Building not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch building")
	}

	var floors []floorModel.FloorModel
	if err := ctl.DB.
		Where("floor_building_id = ? AND floor_tenant_id = ?", b.BuildingID, tenantID).
		Order("floor_number ASC").
		Find(&floors).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch floors")
	}

	return helper.JsonOK(c, "Building fetched", fiber.Map{
		"building": b,
		"floors":   floors,
	})
}

// ========== Update ==========
func (ctl *BuildingController) Update(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid building id")
	}

	var b model.BuildingModel
	if err := ctl.DB.
		Where("building_id = ? AND building_tenant_id = ?", id, tenantID).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Building not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch building")
	}

	var req dto.UpdateBuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	req.ApplyTo(&b)
	if err := ctl.DB.Save(&b).Error; err != nil {
		log.Println("[ERROR] Failed to update building:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update building")
	}
	return helper.JsonUpdated(c, "Building updated", b)
}

// ========== Delete ==========
// A building with floors cannot be deleted; remove the floors first.
func (ctl *BuildingController) Delete(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid building id")
	}

	var b model.BuildingModel
	if err := ctl.DB.
		Where("building_id = ? AND building_tenant_id = ?", id, tenantID).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Building not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch building")
	}

	var floors int64
	if err := ctl.DB.Model(&floorModel.FloorModel{}).
		Where("floor_building_id = ? AND floor_tenant_id = ?", id, tenantID).
		Count(&floors).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete building")
	}
	if floors > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot delete building with existing floors")
	}

	if err := ctl.DB.Delete(&b).Error; err != nil {
		log.Println("[ERROR] Failed to delete building:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete building")
	}
	return helper.JsonDeleted(c, "Building deleted", fiber.Map{"building_id": b.BuildingID})
}
