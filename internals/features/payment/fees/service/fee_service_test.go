package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	allocationModel "hostelku_backend/internals/features/hostel/allocations/model"
	duesModel "hostelku_backend/internals/features/payment/dues/model"
	model "hostelku_backend/internals/features/payment/fees/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.FeeStructureModel{},
		&allocationModel.AllocationModel{},
		&duesModel.PaymentDueModel{},
	))
	return db
}

func TestSetRoomFeeFirstVersion(t *testing.T) {
	db := openTestDB(t)
	tenantID, roomID := uuid.New(), uuid.New()

	fee, err := SetRoomFee(db, tenantID, roomID, decimal.NewFromInt(1200))
	require.NoError(t, err)
	assert.Nil(t, fee.FeeStructureEffectiveTo)

	got, err := CurrentFeeForRoom(db, tenantID, roomID)
	require.NoError(t, err)
	assert.True(t, got.FeeStructureMonthlyFee.Equal(decimal.NewFromInt(1200)))
}

func TestSetRoomFeeVersionsHistory(t *testing.T) {
	db := openTestDB(t)
	tenantID, roomID := uuid.New(), uuid.New()

	first, err := SetRoomFee(db, tenantID, roomID, decimal.NewFromInt(1200))
	require.NoError(t, err)
	second, err := SetRoomFee(db, tenantID, roomID, decimal.NewFromInt(1500))
	require.NoError(t, err)
	assert.NotEqual(t, first.FeeStructureID, second.FeeStructureID)

	// the old version is closed, the new one is open
	var old model.FeeStructureModel
	require.NoError(t, db.First(&old, "fee_structure_id = ?", first.FeeStructureID).Error)
	require.NotNil(t, old.FeeStructureEffectiveTo)

	current, err := CurrentFeeForRoom(db, tenantID, roomID)
	require.NoError(t, err)
	assert.Equal(t, second.FeeStructureID, current.FeeStructureID)
	assert.True(t, current.FeeStructureMonthlyFee.Equal(decimal.NewFromInt(1500)))

	// exactly one open row per room
	var open int64
	require.NoError(t, db.Model(&model.FeeStructureModel{}).
		Where("fee_structure_room_id = ? AND fee_structure_effective_to IS NULL", roomID).
		Count(&open).Error)
	assert.EqualValues(t, 1, open)
}

func TestSetRoomFeeSameAmountIsNoOp(t *testing.T) {
	db := openTestDB(t)
	tenantID, roomID := uuid.New(), uuid.New()

	first, err := SetRoomFee(db, tenantID, roomID, decimal.NewFromInt(1200))
	require.NoError(t, err)
	again, err := SetRoomFee(db, tenantID, roomID, decimal.NewFromInt(1200))
	require.NoError(t, err)
	assert.Equal(t, first.FeeStructureID, again.FeeStructureID)

	var count int64
	require.NoError(t, db.Model(&model.FeeStructureModel{}).
		Where("fee_structure_room_id = ?", roomID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSetRoomFeeRepricesUnpaidDuesOfAllocatedStudents(t *testing.T) {
	db := openTestDB(t)
	tenantID, roomID, studentID := uuid.New(), uuid.New(), uuid.New()

	_, err := SetRoomFee(db, tenantID, roomID, decimal.NewFromInt(1200))
	require.NoError(t, err)

	require.NoError(t, db.Create(&allocationModel.AllocationModel{
		AllocationTenantID:  tenantID,
		AllocationStudentID: studentID,
		AllocationRoomID:    roomID,
		AllocationStatus:    allocationModel.AllocationStatusActive,
	}).Error)

	pending := duesModel.PaymentDueModel{
		PaymentDueTenantID:  tenantID,
		PaymentDueStudentID: studentID,
		PaymentDueMonthYear: "2026-09",
		PaymentDueAmount:    decimal.NewFromInt(1200),
		PaymentDueStatus:    duesModel.PaymentDueStatusPending,
	}
	require.NoError(t, db.Create(&pending).Error)
	paidAmount := decimal.NewFromInt(1200)
	paid := duesModel.PaymentDueModel{
		PaymentDueTenantID:   tenantID,
		PaymentDueStudentID:  studentID,
		PaymentDueMonthYear:  "2026-08",
		PaymentDueAmount:     paidAmount,
		PaymentDuePaidAmount: &paidAmount,
		PaymentDueStatus:     duesModel.PaymentDueStatusPaid,
	}
	require.NoError(t, db.Create(&paid).Error)

	_, err = SetRoomFee(db, tenantID, roomID, decimal.NewFromInt(1500))
	require.NoError(t, err)

	var got duesModel.PaymentDueModel
	require.NoError(t, db.First(&got, "payment_due_id = ?", pending.PaymentDueID).Error)
	assert.True(t, got.PaymentDueAmount.Equal(decimal.NewFromInt(1500)))

	var gotPaid duesModel.PaymentDueModel
	require.NoError(t, db.First(&gotPaid, "payment_due_id = ?", paid.PaymentDueID).Error)
	assert.True(t, gotPaid.PaymentDueAmount.Equal(decimal.NewFromInt(1200)), "paid due must stay frozen")
}

func TestCurrentFeeForRoomMissing(t *testing.T) {
	db := openTestDB(t)

	_, err := CurrentFeeForRoom(db, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNoActiveFee)
}
