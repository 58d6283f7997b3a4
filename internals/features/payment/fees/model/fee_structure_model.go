package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeStructure versions the monthly fee of a room. For a given room at most
// one row has fee_structure_effective_to IS NULL; that row is the current
// fee. Changing the fee closes the current row and inserts a new one in the
// same transaction, so the history doubles as the audit trail.
type FeeStructureModel struct {
	FeeStructureID       uuid.UUID `gorm:"column:fee_structure_id;type:uuid;primaryKey" json:"fee_structure_id"`
	FeeStructureTenantID uuid.UUID `gorm:"column:fee_structure_tenant_id;type:uuid;not null;index" json:"fee_structure_tenant_id"`
	FeeStructureRoomID   uuid.UUID `gorm:"column:fee_structure_room_id;type:uuid;not null;index" json:"fee_structure_room_id"`

	FeeStructureMonthlyFee decimal.Decimal `gorm:"column:fee_structure_monthly_fee;type:numeric(12,2);not null" json:"fee_structure_monthly_fee"`

	FeeStructureEffectiveFrom time.Time  `gorm:"column:fee_structure_effective_from;not null" json:"fee_structure_effective_from"`
	FeeStructureEffectiveTo   *time.Time `gorm:"column:fee_structure_effective_to" json:"fee_structure_effective_to,omitempty"`

	FeeStructureCreatedAt time.Time `gorm:"column:fee_structure_created_at;autoCreateTime" json:"fee_structure_created_at"`
	FeeStructureUpdatedAt time.Time `gorm:"column:fee_structure_updated_at;autoUpdateTime" json:"fee_structure_updated_at"`
}

func (FeeStructureModel) TableName() string { return "fee_structures" }

func (m *FeeStructureModel) BeforeCreate(_ *gorm.DB) error {
	if m.FeeStructureID == uuid.Nil {
		m.FeeStructureID = uuid.New()
	}
	return nil
}
