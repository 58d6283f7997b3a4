package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AnnouncementAudienceAll      = "ALL"
	AnnouncementAudienceStudents = "STUDENTS"
	AnnouncementAudienceWardens  = "WARDENS"
)

type AnnouncementModel struct {
	AnnouncementID       uuid.UUID `gorm:"column:announcement_id;type:uuid;primaryKey" json:"announcement_id"`
	AnnouncementTenantID uuid.UUID `gorm:"column:announcement_tenant_id;type:uuid;not null;index" json:"announcement_tenant_id"`

	AnnouncementTitle    string `gorm:"column:announcement_title;type:text;not null" json:"announcement_title"`
	AnnouncementBody     string `gorm:"column:announcement_body;type:text;not null" json:"announcement_body"`
	AnnouncementAudience string `gorm:"column:announcement_audience;type:varchar(20);not null;default:ALL" json:"announcement_audience"`

	AnnouncementStartsAt *time.Time `gorm:"column:announcement_starts_at" json:"announcement_starts_at,omitempty"`
	AnnouncementEndsAt   *time.Time `gorm:"column:announcement_ends_at" json:"announcement_ends_at,omitempty"`
	AnnouncementIsActive bool       `gorm:"column:announcement_is_active;not null;default:true" json:"announcement_is_active"`

	AnnouncementCreatedAt time.Time      `gorm:"column:announcement_created_at;autoCreateTime" json:"announcement_created_at"`
	AnnouncementUpdatedAt time.Time      `gorm:"column:announcement_updated_at;autoUpdateTime" json:"announcement_updated_at"`
	AnnouncementDeletedAt gorm.DeletedAt `gorm:"column:announcement_deleted_at;index" json:"announcement_deleted_at,omitempty"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (m *AnnouncementModel) BeforeCreate(_ *gorm.DB) error {
	if m.AnnouncementID == uuid.Nil {
		m.AnnouncementID = uuid.New()
	}
	return nil
}
