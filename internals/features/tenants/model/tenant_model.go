package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is one isolated hostel organization. Every other table carries a
// tenant id column; scoping is row-level, not schema-level.
type TenantModel struct {
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;primaryKey" json:"tenant_id"`

	TenantName    string  `gorm:"column:tenant_name;type:text;not null" json:"tenant_name"`
	TenantCode    string  `gorm:"column:tenant_code;type:varchar(40);not null;uniqueIndex:uq_tenants_code" json:"tenant_code"`
	TenantAddress *string `gorm:"column:tenant_address;type:text" json:"tenant_address,omitempty"`

	TenantIsActive bool `gorm:"column:tenant_is_active;not null;default:true" json:"tenant_is_active"`

	TenantCreatedAt time.Time      `gorm:"column:tenant_created_at;autoCreateTime" json:"tenant_created_at"`
	TenantUpdatedAt time.Time      `gorm:"column:tenant_updated_at;autoUpdateTime" json:"tenant_updated_at"`
	TenantDeletedAt gorm.DeletedAt `gorm:"column:tenant_deleted_at;index" json:"tenant_deleted_at,omitempty"`
}

func (TenantModel) TableName() string { return "tenants" }

func (m *TenantModel) BeforeCreate(_ *gorm.DB) error {
	if m.TenantID == uuid.Nil {
		m.TenantID = uuid.New()
	}
	return nil
}
