package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	dto "hostelku_backend/internals/features/payment/fees/dto"
	model "hostelku_backend/internals/features/payment/fees/model"
	service "hostelku_backend/internals/features/payment/fees/service"
	helper "hostelku_backend/internals/helpers"
)

type FeeSettingsController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewFeeSettingsController(db *gorm.DB) *FeeSettingsController {
	return &FeeSettingsController{DB: db, Validator: validator.New()}
}

// GET /api/a/payments/fee-settings
// Returns the current (open) fee version of every room in the tenant.
func (ctl *FeeSettingsController) Get(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var fees []model.FeeStructureModel
	if err := ctl.DB.
		Where("fee_structure_tenant_id = ? AND fee_structure_effective_to IS NULL", tenantID).
		Order("fee_structure_effective_from DESC").
		Find(&fees).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee settings")
	}
	return helper.JsonOK(c, "Fee settings fetched", fees)
}

// PUT /api/a/payments/fee-settings
// Versions the room fee: closes the open row, inserts the new one and
// reprices unpaid dues, all in one transaction.
func (ctl *FeeSettingsController) Put(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var req dto.SetRoomFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !req.MonthlyFee.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "monthly_fee must be positive")
	}

	var room roomModel.RoomModel
	if err := ctl.DB.
		Where("room_id = ? AND room_tenant_id = ?", req.RoomID, tenantID).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Room not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update fee settings")
	}

	fee, err := service.SetRoomFee(ctl.DB, tenantID, req.RoomID, req.MonthlyFee)
	if err != nil {
		log.Println("[ERROR] Fee update failed:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update fee settings")
	}
	return helper.JsonUpdated(c, "Fee settings updated", fee)
}
