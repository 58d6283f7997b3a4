// file: internals/features/tenants/controller/tenant_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	model "hostelku_backend/internals/features/tenants/model"
	helper "hostelku_backend/internals/helpers"
)

type TenantController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewTenantController(db *gorm.DB) *TenantController {
	return &TenantController{DB: db, Validator: validator.New()}
}

type createTenantRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Code    string  `json:"code" validate:"required,max=40"`
	Address *string `json:"address"`
}

// POST /api/a/tenants: registry bootstrap; normally called once per org.
func (ctl *TenantController) Create(c *fiber.Ctx) error {
	var req createTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var existing model.TenantModel
	err := ctl.DB.Where("tenant_code = ?", code).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "Tenant code already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create tenant")
	}

	tenant := &model.TenantModel{
		TenantName:     strings.TrimSpace(req.Name),
		TenantCode:     code,
		TenantAddress:  req.Address,
		TenantIsActive: true,
	}
	if err := ctl.DB.Create(tenant).Error; err != nil {
		log.Println("[ERROR] Failed to create tenant:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create tenant")
	}
	return helper.JsonCreated(c, "Tenant created", tenant)
}

// GET /api/a/tenants/me: the caller's own tenant record.
func (ctl *TenantController) Me(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var tenant model.TenantModel
	if err := ctl.DB.Where("tenant_id = ?", tenantID).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Tenant not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch tenant")
	}
	return helper.JsonOK(c, "Tenant fetched", tenant)
}
