// file: internals/features/complaints/controller/complaint_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/complaints/dto"
	model "hostelku_backend/internals/features/complaints/model"
	helper "hostelku_backend/internals/helpers"
)

type ComplaintController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewComplaintController(db *gorm.DB) *ComplaintController {
	return &ComplaintController{DB: db, Validator: validator.New()}
}

func parseComplaintID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid complaint id")
	}
	return id, nil
}

func (ctl *ComplaintController) findComplaint(tenantID, id uuid.UUID) (*model.ComplaintModel, error) {
	var complaint model.ComplaintModel
	if err := ctl.DB.
		Where("complaint_id = ? AND complaint_tenant_id = ?", id, tenantID).
		First(&complaint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Complaint not found")
		}
		return nil, err
	}
	return &complaint, nil
}

// ========== Submit ==========
// POST /api/s/complaints
func (ctl *ComplaintController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	studentID, err := helper.GetUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	priority := req.Priority
	if priority == "" {
		priority = model.ComplaintPriorityMedium
	}

	complaint := &model.ComplaintModel{
		ComplaintTenantID:    tenantID,
		ComplaintStudentID:   studentID,
		ComplaintRoomID:      req.RoomID,
		ComplaintCategory:    strings.ToUpper(strings.TrimSpace(req.Category)),
		ComplaintTitle:       strings.TrimSpace(req.Title),
		ComplaintDescription: req.Description,
		ComplaintPriority:    priority,
		ComplaintStatus:      model.ComplaintStatusPending,
	}
	if err := ctl.DB.Create(complaint).Error; err != nil {
		log.Println("[ERROR] Failed to create complaint:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create complaint")
	}
	return helper.JsonCreated(c, "Complaint submitted", complaint)
}

// ========== Student list ==========
// GET /api/s/complaints
func (ctl *ComplaintController) ListMine(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	studentID, err := helper.GetUserID(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)
	q := ctl.DB.Model(&model.ComplaintModel{}).
		Where("complaint_tenant_id = ? AND complaint_student_id = ?", tenantID, studentID)
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("complaint_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch complaints")
	}
	var complaints []model.ComplaintModel
	if err := q.Order("complaint_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&complaints).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch complaints")
	}
	return helper.JsonList(c, "Complaints fetched", complaints, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

// ========== Admin list ==========
// GET /api/a/complaints?status=&category=&priority=&from=&to=
func (ctl *ComplaintController) List(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)
	q := ctl.DB.Model(&model.ComplaintModel{}).
		Where("complaint_tenant_id = ?", tenantID)
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("complaint_status = ?", status)
	}
	if category := strings.ToUpper(strings.TrimSpace(c.Query("category"))); category != "" {
		q = q.Where("complaint_category = ?", category)
	}
	if priority := strings.ToUpper(strings.TrimSpace(c.Query("priority"))); priority != "" {
		q = q.Where("complaint_priority = ?", priority)
	}
	if from := strings.TrimSpace(c.Query("from")); from != "" {
		ts, err := time.Parse("2006-01-02", from)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
		}
		q = q.Where("complaint_created_at >= ?", ts)
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		ts, err := time.Parse("2006-01-02", to)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
		}
		q = q.Where("complaint_created_at < ?", ts.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch complaints")
	}
	var complaints []model.ComplaintModel
	if err := q.Order("complaint_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&complaints).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch complaints")
	}
	return helper.JsonList(c, "Complaints fetched", complaints, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

// ========== Detail ==========
// GET /api/s/complaints/:id and /api/a/complaints/:id
// Students only see their own complaint, with internal comments filtered out.
func (ctl *ComplaintController) GetByID(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := parseComplaintID(c)
	if err != nil {
		return err
	}

	var complaint model.ComplaintModel
	q := ctl.DB.Where("complaint_id = ? AND complaint_tenant_id = ?", id, tenantID)
	if helper.IsStudent(c) {
		userID, err := helper.GetUserID(c)
		if err != nil {
			return err
		}
		q = q.Where("complaint_student_id = ?", userID).
			Preload("Comments", "comment_is_internal = ?", false)
	} else {
		q = q.Preload("Comments")
	}
	if err := q.First(&complaint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Complaint not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch complaint")
	}

	return helper.JsonOK(c, "Complaint fetched", fiber.Map{
		"complaint":      complaint,
		"allowed_states": model.AllowedTargets(complaint.ComplaintStatus),
	})
}

// ========== Status ==========
// PUT /api/a/complaints/:id/status
func (ctl *ComplaintController) UpdateStatus(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	actorID, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseComplaintID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateComplaintStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	target := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.IsValidStatus(target) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown complaint status: "+target)
	}

	complaint, err := ctl.findComplaint(tenantID, id)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch complaint")
	}

	if !model.CanTransition(complaint.ComplaintStatus, target) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Cannot transition complaint from %s to %s", complaint.ComplaintStatus, target))
	}
	if target == model.ComplaintStatusResolved &&
		(req.ResolutionNotes == nil || strings.TrimSpace(*req.ResolutionNotes) == "") {
		return fiber.NewError(fiber.StatusBadRequest, "resolution_notes is required when resolving a complaint")
	}

	now := time.Now()
	from := complaint.ComplaintStatus
	complaint.MarkTransition(target, now)
	if target == model.ComplaintStatusResolved {
		complaint.ComplaintResolutionNotes = req.ResolutionNotes
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(complaint).Error; err != nil {
			return err
		}
		text := fmt.Sprintf("Status changed from %s to %s", from, target)
		if req.Comment != nil && strings.TrimSpace(*req.Comment) != "" {
			text = text + ": " + strings.TrimSpace(*req.Comment)
		}
		return tx.Create(&model.ComplaintCommentModel{
			CommentTenantID:    tenantID,
			CommentComplaintID: complaint.ComplaintID,
			CommentAuthorID:    actorID,
			CommentText:        text,
			CommentType:        model.CommentTypeStatusUpdate,
		}).Error
	})
	if err != nil {
		log.Println("[ERROR] Failed to update complaint status:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update complaint status")
	}

	return helper.JsonUpdated(c, "Complaint status updated", complaint)
}

// ========== Comments ==========
// POST /api/s/complaints/:id/comments and /api/a/complaints/:id/comments
func (ctl *ComplaintController) AddComment(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	authorID, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseComplaintID(c)
	if err != nil {
		return err
	}

	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	complaint, err := ctl.findComplaint(tenantID, id)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch complaint")
	}

	isInternal := req.IsInternal
	if helper.IsStudent(c) {
		if complaint.ComplaintStudentID != authorID {
			return fiber.NewError(fiber.StatusNotFound, "Complaint not found")
		}
		// students cannot whisper
		isInternal = false
	}

	comment := &model.ComplaintCommentModel{
		CommentTenantID:    tenantID,
		CommentComplaintID: complaint.ComplaintID,
		CommentAuthorID:    authorID,
		CommentText:        strings.TrimSpace(req.Text),
		CommentIsInternal:  isInternal,
		CommentType:        model.CommentTypeComment,
	}
	if err := ctl.DB.Create(comment).Error; err != nil {
		log.Println("[ERROR] Failed to add comment:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to add comment")
	}
	return helper.JsonCreated(c, "Comment added", comment)
}

// ========== Stats ==========
// GET /api/a/complaints/stats
func (ctl *ComplaintController) Stats(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	type statusRow struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	type categoryRow struct {
		Category string `json:"category"`
		Count    int64  `json:"count"`
	}

	var byStatus []statusRow
	if err := ctl.DB.Model(&model.ComplaintModel{}).
		Select("complaint_status AS status, COUNT(*) AS count").
		Where("complaint_tenant_id = ?", tenantID).
		Group("complaint_status").
		Scan(&byStatus).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch complaint stats")
	}

	var byCategory []categoryRow
	if err := ctl.DB.Model(&model.ComplaintModel{}).
		Select("complaint_category AS category, COUNT(*) AS count").
		Where("complaint_tenant_id = ?", tenantID).
		Group("complaint_category").
		Order("count DESC").
		Scan(&byCategory).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch complaint stats")
	}

	var total int64
	var open int64
	for _, r := range byStatus {
		total += r.Count
		if r.Status != model.ComplaintStatusClosed && r.Status != model.ComplaintStatusRejected {
			open += r.Count
		}
	}

	return helper.JsonOK(c, "Complaint stats fetched", fiber.Map{
		"total":       total,
		"open":        open,
		"by_status":   byStatus,
		"by_category": byCategory,
	})
}
