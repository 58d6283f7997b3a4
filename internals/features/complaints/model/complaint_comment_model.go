package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CommentTypeComment      = "COMMENT"
	CommentTypeStatusUpdate = "STATUS_UPDATE"
)

// Comments thread under a complaint. Internal comments are hidden from
// students; status changes append a STATUS_UPDATE comment automatically.
type ComplaintCommentModel struct {
	CommentID          uuid.UUID `gorm:"column:comment_id;type:uuid;primaryKey" json:"comment_id"`
	CommentTenantID    uuid.UUID `gorm:"column:comment_tenant_id;type:uuid;not null;index" json:"comment_tenant_id"`
	CommentComplaintID uuid.UUID `gorm:"column:comment_complaint_id;type:uuid;not null;index" json:"comment_complaint_id"`
	CommentAuthorID    uuid.UUID `gorm:"column:comment_author_id;type:uuid;not null" json:"comment_author_id"`

	CommentText       string `gorm:"column:comment_text;type:text;not null" json:"comment_text"`
	CommentIsInternal bool   `gorm:"column:comment_is_internal;not null;default:false" json:"comment_is_internal"`
	CommentType       string `gorm:"column:comment_type;type:varchar(20);not null;default:COMMENT" json:"comment_type"`

	CommentCreatedAt time.Time `gorm:"column:comment_created_at;autoCreateTime" json:"comment_created_at"`
}

func (ComplaintCommentModel) TableName() string { return "complaint_comments" }

func (m *ComplaintCommentModel) BeforeCreate(_ *gorm.DB) error {
	if m.CommentID == uuid.Nil {
		m.CommentID = uuid.New()
	}
	return nil
}
