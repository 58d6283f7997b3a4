// file: internals/features/announcements/controller/announcement_controller.go
package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "hostelku_backend/internals/features/announcements/dto"
	model "hostelku_backend/internals/features/announcements/model"
	helper "hostelku_backend/internals/helpers"
)

type AnnouncementController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAnnouncementController(db *gorm.DB) *AnnouncementController {
	return &AnnouncementController{DB: db, Validator: validator.New()}
}

// POST /api/a/announcements
func (ctl *AnnouncementController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var req dto.CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	audience := req.Audience
	if audience == "" {
		audience = model.AnnouncementAudienceAll
	}
	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		return fiber.NewError(fiber.StatusBadRequest, "ends_at must be after starts_at")
	}

	announcement := &model.AnnouncementModel{
		AnnouncementTenantID: tenantID,
		AnnouncementTitle:    strings.TrimSpace(req.Title),
		AnnouncementBody:     req.Body,
		AnnouncementAudience: audience,
		AnnouncementStartsAt: req.StartsAt,
		AnnouncementEndsAt:   req.EndsAt,
		AnnouncementIsActive: true,
	}
	if err := ctl.DB.Create(announcement).Error; err != nil {
		log.Println("[ERROR] Failed to create announcement:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create announcement")
	}
	return helper.JsonCreated(c, "Announcement created", announcement)
}

// GET /api/a/announcements (full list, including inactive)
func (ctl *AnnouncementController) List(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)
	q := ctl.DB.Model(&model.AnnouncementModel{}).
		Where("announcement_tenant_id = ?", tenantID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch announcements")
	}
	var announcements []model.AnnouncementModel
	if err := q.Order("announcement_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&announcements).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch announcements")
	}
	return helper.JsonList(c, "Announcements fetched", announcements, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

// GET /api/s/announcements: only active announcements inside their window
// whose audience includes students.
func (ctl *AnnouncementController) ListForStudents(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	now := time.Now()
	var announcements []model.AnnouncementModel
	if err := ctl.DB.
		Where("announcement_tenant_id = ? AND announcement_is_active = ?", tenantID, true).
		Where("announcement_audience IN ?", []string{model.AnnouncementAudienceAll, model.AnnouncementAudienceStudents}).
		Where("announcement_starts_at IS NULL OR announcement_starts_at <= ?", now).
		Where("announcement_ends_at IS NULL OR announcement_ends_at >= ?", now).
		Order("announcement_created_at DESC").
		Find(&announcements).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch announcements")
	}
	return helper.JsonOK(c, "Announcements fetched", announcements)
}

// PUT /api/a/announcements/:id
func (ctl *AnnouncementController) Update(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid announcement id")
	}

	var req dto.UpdateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var announcement model.AnnouncementModel
	if err := ctl.DB.
		Where("announcement_id = ? AND announcement_tenant_id = ?", id, tenantID).
		First(&announcement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Announcement not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch announcement")
	}

	if req.Title != nil {
		announcement.AnnouncementTitle = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		announcement.AnnouncementBody = *req.Body
	}
	if req.Audience != nil {
		announcement.AnnouncementAudience = *req.Audience
	}
	if req.StartsAt != nil {
		announcement.AnnouncementStartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		announcement.AnnouncementEndsAt = req.EndsAt
	}
	if req.IsActive != nil {
		announcement.AnnouncementIsActive = *req.IsActive
	}

	if err := ctl.DB.Save(&announcement).Error; err != nil {
		log.Println("[ERROR] Failed to update announcement:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update announcement")
	}
	return helper.JsonUpdated(c, "Announcement updated", announcement)
}

// DELETE /api/a/announcements/:id (soft delete)
func (ctl *AnnouncementController) Delete(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid announcement id")
	}

	res := ctl.DB.
		Where("announcement_id = ? AND announcement_tenant_id = ?", id, tenantID).
		Delete(&model.AnnouncementModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete announcement")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Announcement not found")
	}
	return helper.JsonDeleted(c, "Announcement deleted", fiber.Map{"announcement_id": id})
}
