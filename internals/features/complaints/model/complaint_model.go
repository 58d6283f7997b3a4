package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ComplaintStatusPending      = "PENDING"
	ComplaintStatusAcknowledged = "ACKNOWLEDGED"
	ComplaintStatusInProgress   = "IN_PROGRESS"
	ComplaintStatusResolved     = "RESOLVED"
	ComplaintStatusClosed       = "CLOSED"
	ComplaintStatusRejected     = "REJECTED"
)

const (
	ComplaintPriorityLow    = "LOW"
	ComplaintPriorityMedium = "MEDIUM"
	ComplaintPriorityHigh   = "HIGH"
	ComplaintPriorityUrgent = "URGENT"
)

type ComplaintModel struct {
	ComplaintID        uuid.UUID  `gorm:"column:complaint_id;type:uuid;primaryKey" json:"complaint_id"`
	ComplaintTenantID  uuid.UUID  `gorm:"column:complaint_tenant_id;type:uuid;not null;index" json:"complaint_tenant_id"`
	ComplaintStudentID uuid.UUID  `gorm:"column:complaint_student_id;type:uuid;not null;index" json:"complaint_student_id"`
	ComplaintRoomID    *uuid.UUID `gorm:"column:complaint_room_id;type:uuid" json:"complaint_room_id,omitempty"`

	ComplaintCategory    string `gorm:"column:complaint_category;type:varchar(40);not null" json:"complaint_category"`
	ComplaintTitle       string `gorm:"column:complaint_title;type:text;not null" json:"complaint_title"`
	ComplaintDescription string `gorm:"column:complaint_description;type:text;not null" json:"complaint_description"`
	ComplaintPriority    string `gorm:"column:complaint_priority;type:varchar(20);not null;default:MEDIUM" json:"complaint_priority"`

	ComplaintStatus          string  `gorm:"column:complaint_status;type:varchar(20);not null;default:PENDING" json:"complaint_status"`
	ComplaintResolutionNotes *string `gorm:"column:complaint_resolution_notes;type:text" json:"complaint_resolution_notes,omitempty"`

	// one timestamp per lifecycle transition
	ComplaintAcknowledgedAt *time.Time `gorm:"column:complaint_acknowledged_at" json:"complaint_acknowledged_at,omitempty"`
	ComplaintInProgressAt   *time.Time `gorm:"column:complaint_in_progress_at" json:"complaint_in_progress_at,omitempty"`
	ComplaintResolvedAt     *time.Time `gorm:"column:complaint_resolved_at" json:"complaint_resolved_at,omitempty"`
	ComplaintClosedAt       *time.Time `gorm:"column:complaint_closed_at" json:"complaint_closed_at,omitempty"`
	ComplaintRejectedAt     *time.Time `gorm:"column:complaint_rejected_at" json:"complaint_rejected_at,omitempty"`

	ComplaintCreatedAt time.Time `gorm:"column:complaint_created_at;autoCreateTime" json:"complaint_created_at"`
	ComplaintUpdatedAt time.Time `gorm:"column:complaint_updated_at;autoUpdateTime" json:"complaint_updated_at"`

	Comments []ComplaintCommentModel `gorm:"foreignKey:CommentComplaintID;references:ComplaintID" json:"comments,omitempty"`
}

func (ComplaintModel) TableName() string { return "complaints" }

func (m *ComplaintModel) BeforeCreate(_ *gorm.DB) error {
	if m.ComplaintID == uuid.Nil {
		m.ComplaintID = uuid.New()
	}
	return nil
}

// MarkTransition stamps the per-status timestamp for a transition target.
func (m *ComplaintModel) MarkTransition(to string, at time.Time) {
	switch to {
	case ComplaintStatusAcknowledged:
		m.ComplaintAcknowledgedAt = &at
	case ComplaintStatusInProgress:
		m.ComplaintInProgressAt = &at
	case ComplaintStatusResolved:
		m.ComplaintResolvedAt = &at
	case ComplaintStatusClosed:
		m.ComplaintClosedAt = &at
	case ComplaintStatusRejected:
		m.ComplaintRejectedAt = &at
	}
	m.ComplaintStatus = to
}
