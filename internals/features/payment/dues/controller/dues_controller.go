package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	service "hostelku_backend/internals/features/payment/dues/service"
	helper "hostelku_backend/internals/helpers"
)

type DuesController struct {
	DB *gorm.DB
}

func NewDuesController(db *gorm.DB) *DuesController {
	return &DuesController{DB: db}
}

// GET /api/s/payments/dues
func (ctl *DuesController) GetMyDues(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	studentID, err := helper.GetUserID(c)
	if err != nil {
		return err
	}

	dues, err := service.GetStudentDues(ctl.DB, tenantID, studentID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveAllocation):
			return fiber.NewError(fiber.StatusBadRequest, "Student does not have an active room allocation")
		case errors.Is(err, service.ErrNoFeeStructure):
			return fiber.NewError(fiber.StatusBadRequest, "No fee structure configured for the allocated room")
		default:
			log.Println("[ERROR] Failed to fetch dues:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch dues")
		}
	}

	return helper.JsonOK(c, "Dues fetched", dues)
}
