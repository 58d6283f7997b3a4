// file: internals/features/hostel/students/controller/student_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	allocationModel "hostelku_backend/internals/features/hostel/allocations/model"
	dto "hostelku_backend/internals/features/hostel/students/dto"
	model "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

type StudentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Validator: validator.New()}
}

// POST /api/a/students
func (ctl *StudentController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	student := &model.StudentModel{
		StudentTenantID: tenantID,
		StudentName:     strings.TrimSpace(req.Name),
		StudentEmail:    req.Email,
		StudentPhone:    req.Phone,
		StudentStatus:   model.StudentStatusActive,
	}
	if err := ctl.DB.Create(student).Error; err != nil {
		log.Println("[ERROR] Failed to create student:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create student")
	}
	return helper.JsonCreated(c, "Student created", student)
}

// GET /api/a/students?status=&q=
func (ctl *StudentController) List(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)
	q := ctl.DB.Model(&model.StudentModel{}).
		Where("student_tenant_id = ?", tenantID)
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("student_status = ?", status)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		q = q.Where("student_name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}
	var students []model.StudentModel
	if err := q.Order("student_name ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&students).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}
	return helper.JsonList(c, "Students fetched", students, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

// GET /api/a/students/:id: student plus their active allocation, if any.
func (ctl *StudentController) GetByID(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid student id")
	}

	var student model.StudentModel
	if err := ctl.DB.
		Where("student_id = ? AND student_tenant_id = ?", id, tenantID).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	var allocation allocationModel.AllocationModel
	var active *allocationModel.AllocationModel
	err = ctl.DB.
		Where("allocation_tenant_id = ? AND allocation_student_id = ? AND allocation_status = ?",
			tenantID, id, allocationModel.AllocationStatusActive).
		Preload("Room").
		First(&allocation).Error
	if err == nil {
		active = &allocation
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	return helper.JsonOK(c, "Student fetched", fiber.Map{
		"student":           student,
		"active_allocation": active,
	})
}

// PUT /api/a/students/:id
func (ctl *StudentController) Update(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid student id")
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var student model.StudentModel
	if err := ctl.DB.
		Where("student_id = ? AND student_tenant_id = ?", id, tenantID).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	if req.Name != nil {
		student.StudentName = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		student.StudentEmail = req.Email
	}
	if req.Phone != nil {
		student.StudentPhone = req.Phone
	}
	if req.Status != nil {
		student.StudentStatus = *req.Status
	}

	if err := ctl.DB.Save(&student).Error; err != nil {
		log.Println("[ERROR] Failed to update student:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update student")
	}
	return helper.JsonUpdated(c, "Student updated", student)
}
