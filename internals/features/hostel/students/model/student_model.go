package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StudentStatusActive   = "ACTIVE"
	StudentStatusInactive = "INACTIVE"
)

type StudentModel struct {
	StudentID       uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentTenantID uuid.UUID `gorm:"column:student_tenant_id;type:uuid;not null;index" json:"student_tenant_id"`

	StudentName  string  `gorm:"column:student_name;type:text;not null" json:"student_name"`
	StudentEmail *string `gorm:"column:student_email;type:text" json:"student_email,omitempty"`
	StudentPhone *string `gorm:"column:student_phone;type:varchar(20)" json:"student_phone,omitempty"`

	StudentStatus string `gorm:"column:student_status;type:varchar(20);not null;default:ACTIVE" json:"student_status"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(_ *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
