package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// Payment records one attempt against the Razorpay gateway. Rows are
// created PENDING when a gateway order is opened, transition to PAID or
// FAILED after verification, and are never deleted.
type PaymentModel struct {
	PaymentID        uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentTenantID  uuid.UUID `gorm:"column:payment_tenant_id;type:uuid;not null;uniqueIndex:uq_payments_tenant_order" json:"payment_tenant_id"`
	PaymentStudentID uuid.UUID `gorm:"column:payment_student_id;type:uuid;not null;index" json:"payment_student_id"`

	PaymentMonthYear string          `gorm:"column:payment_month_year;type:varchar(7);not null;index" json:"payment_month_year"`
	PaymentAmount    decimal.Decimal `gorm:"column:payment_amount;type:numeric(12,2);not null" json:"payment_amount"`
	PaymentMode      *string         `gorm:"column:payment_mode;type:varchar(30)" json:"payment_mode,omitempty"`
	PaymentStatus    string          `gorm:"column:payment_status;type:varchar(20);not null;default:PENDING" json:"payment_status"`

	PaymentRazorpayOrderID   string  `gorm:"column:payment_razorpay_order_id;type:varchar(64);not null;uniqueIndex:uq_payments_tenant_order" json:"payment_razorpay_order_id"`
	PaymentRazorpayPaymentID *string `gorm:"column:payment_razorpay_payment_id;type:varchar(64)" json:"payment_razorpay_payment_id,omitempty"`
	PaymentRazorpaySignature *string `gorm:"column:payment_razorpay_signature;type:varchar(128)" json:"payment_razorpay_signature,omitempty"`
	PaymentTransactionID     *string `gorm:"column:payment_transaction_id;type:varchar(64)" json:"payment_transaction_id,omitempty"`

	PaymentDate           *time.Time     `gorm:"column:payment_date" json:"payment_date,omitempty"`
	PaymentRemarks        *string        `gorm:"column:payment_remarks;type:text" json:"payment_remarks,omitempty"`
	PaymentGatewayPayload datatypes.JSON `gorm:"column:payment_gateway_payload" json:"payment_gateway_payload,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
}

func (PaymentModel) TableName() string { return "payments" }

func (m *PaymentModel) BeforeCreate(_ *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	return nil
}
