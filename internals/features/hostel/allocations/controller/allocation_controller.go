package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/hostel/allocations/dto"
	model "hostelku_backend/internals/features/hostel/allocations/model"
	service "hostelku_backend/internals/features/hostel/allocations/service"
	helper "hostelku_backend/internals/helpers"
)

type AllocationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAllocationController(db *gorm.DB) *AllocationController {
	return &AllocationController{DB: db, Validator: validator.New()}
}

func (ctl *AllocationController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var req dto.CreateAllocationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	allocation, err := service.AllocateRoom(ctl.DB, tenantID, req.AllocationStudentID, req.AllocationRoomID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Room not found")
		case errors.Is(err, service.ErrRoomFull):
			return fiber.NewError(fiber.StatusBadRequest, "Room is already full")
		case errors.Is(err, service.ErrRoomUnderMaintenance):
			return fiber.NewError(fiber.StatusBadRequest, "Room is under maintenance")
		case errors.Is(err, service.ErrAlreadyAllocated):
			return fiber.NewError(fiber.StatusBadRequest, "Student already has an active room allocation")
		default:
			log.Println("[ERROR] Allocation failed:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to allocate room")
		}
	}

	return helper.JsonCreated(c, "Room allocated", allocation)
}

func (ctl *AllocationController) Vacate(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid allocation id")
	}

	allocation, err := service.VacateAllocation(ctl.DB, tenantID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAllocationNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Allocation not found")
		case errors.Is(err, service.ErrAllocationNotActive):
			return fiber.NewError(fiber.StatusBadRequest, "Allocation is not active")
		default:
			log.Println("[ERROR] Vacate failed:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to vacate allocation")
		}
	}

	return helper.JsonUpdated(c, "Allocation vacated", allocation)
}

func (ctl *AllocationController) List(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.AllocationModel{}).
		Where("allocation_tenant_id = ?", tenantID)

	if st := strings.TrimSpace(c.Query("status")); st != "" {
		q = q.Where("allocation_status = ?", st)
	}
	if sid := strings.TrimSpace(c.Query("student_id")); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid student id")
		}
		q = q.Where("allocation_student_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch allocations")
	}

	var allocations []model.AllocationModel
	if err := q.Preload("Room").Preload("Student").
		Order("allocation_allocated_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&allocations).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch allocations")
	}

	return helper.JsonList(c, "Allocations fetched", allocations,
		helper.BuildPagination(total, paging.Page, paging.PerPage))
}
