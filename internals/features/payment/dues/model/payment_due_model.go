package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentDueStatusPending = "PENDING"
	PaymentDueStatusOverdue = "OVERDUE"
	PaymentDueStatusPaid    = "PAID"
)

// PaymentDue is a generated monthly obligation for a student, keyed by the
// "YYYY-MM" month string. Rows are materialized lazily on the first dues
// read and repriced when the room's fee structure changes, but a PAID row
// is never touched again.
type PaymentDueModel struct {
	PaymentDueID        uuid.UUID `gorm:"column:payment_due_id;type:uuid;primaryKey" json:"payment_due_id"`
	PaymentDueTenantID  uuid.UUID `gorm:"column:payment_due_tenant_id;type:uuid;not null;uniqueIndex:uq_payment_dues_month" json:"payment_due_tenant_id"`
	PaymentDueStudentID uuid.UUID `gorm:"column:payment_due_student_id;type:uuid;not null;uniqueIndex:uq_payment_dues_month" json:"payment_due_student_id"`

	PaymentDueMonthYear string `gorm:"column:payment_due_month_year;type:varchar(7);not null;uniqueIndex:uq_payment_dues_month" json:"payment_due_month_year"`

	PaymentDueAmount     decimal.Decimal  `gorm:"column:payment_due_amount;type:numeric(12,2);not null" json:"payment_due_amount"`
	PaymentDuePaidAmount *decimal.Decimal `gorm:"column:payment_due_paid_amount;type:numeric(12,2)" json:"payment_due_paid_amount,omitempty"`

	PaymentDueDate   time.Time `gorm:"column:payment_due_date;not null" json:"payment_due_date"`
	PaymentDueStatus string    `gorm:"column:payment_due_status;type:varchar(20);not null;default:PENDING" json:"payment_due_status"`

	PaymentDueCreatedAt time.Time `gorm:"column:payment_due_created_at;autoCreateTime" json:"payment_due_created_at"`
	PaymentDueUpdatedAt time.Time `gorm:"column:payment_due_updated_at;autoUpdateTime" json:"payment_due_updated_at"`
}

func (PaymentDueModel) TableName() string { return "payment_dues" }

func (m *PaymentDueModel) BeforeCreate(_ *gorm.DB) error {
	if m.PaymentDueID == uuid.Nil {
		m.PaymentDueID = uuid.New()
	}
	return nil
}
