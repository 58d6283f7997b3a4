package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	allocationModel "hostelku_backend/internals/features/hostel/allocations/model"
	allocationService "hostelku_backend/internals/features/hostel/allocations/service"
	buildingModel "hostelku_backend/internals/features/hostel/buildings/model"
	floorModel "hostelku_backend/internals/features/hostel/floors/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	model "hostelku_backend/internals/features/payment/dues/model"
	feeModel "hostelku_backend/internals/features/payment/fees/model"
	feeService "hostelku_backend/internals/features/payment/fees/service"
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
		&buildingModel.BuildingModel{},
		&floorModel.FloorModel{},
		&roomModel.RoomModel{},
		&allocationModel.AllocationModel{},
		&feeModel.FeeStructureModel{},
		&model.PaymentDueModel{},
	))
	return db
}

type duesFixture struct {
	tenantID  uuid.UUID
	studentID uuid.UUID
	roomID    uuid.UUID
}

func seedAllocatedStudent(t *testing.T, db *gorm.DB, monthlyFee decimal.Decimal) duesFixture {
	t.Helper()
	f := duesFixture{tenantID: uuid.New(), studentID: uuid.New()}

	building := buildingModel.BuildingModel{
		BuildingTenantID: f.tenantID,
		BuildingName:     "Block A",
		BuildingCode:     "A",
	}
	require.NoError(t, db.Create(&building).Error)

	floor := floorModel.FloorModel{
		FloorTenantID:   f.tenantID,
		FloorBuildingID: building.BuildingID,
		FloorNumber:     1,
	}
	require.NoError(t, db.Create(&floor).Error)

	room := roomModel.RoomModel{
		RoomTenantID:   f.tenantID,
		RoomBuildingID: building.BuildingID,
		RoomFloorID:    floor.FloorID,
		RoomNumber:     "1-01",
		RoomType:       roomModel.RoomTypeDouble,
		RoomCapacity:   2,
		RoomStatus:     roomModel.RoomStatusAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	f.roomID = room.RoomID

	_, err := feeService.SetRoomFee(db, f.tenantID, f.roomID, monthlyFee)
	require.NoError(t, err)

	_, err = allocationService.AllocateRoom(db, f.tenantID, f.studentID, f.roomID)
	require.NoError(t, err)

	return f
}

func TestGetStudentDuesMaterializesFourMonths(t *testing.T) {
	db := openTestDB(t)
	fee := decimal.NewFromInt(1200)
	f := seedAllocatedStudent(t, db, fee)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	dues, err := GetStudentDues(db, f.tenantID, f.studentID, now)
	require.NoError(t, err)
	require.Len(t, dues, 4)

	// month_year DESC
	assert.Equal(t, "2026-11", dues[0].PaymentDueMonthYear)
	assert.Equal(t, "2026-10", dues[1].PaymentDueMonthYear)
	assert.Equal(t, "2026-09", dues[2].PaymentDueMonthYear)
	assert.Equal(t, "2026-08", dues[3].PaymentDueMonthYear)

	for _, d := range dues {
		assert.True(t, d.PaymentDueAmount.Equal(fee), "amount %s", d.PaymentDueAmount)
		assert.Equal(t, model.PaymentDueStatusPending, d.PaymentDueStatus)
	}
	// due date is the 10th of the following month
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), dues[3].PaymentDueDate)
}

func TestGetStudentDuesIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	f := seedAllocatedStudent(t, db, decimal.NewFromInt(1200))
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	first, err := GetStudentDues(db, f.tenantID, f.studentID, now)
	require.NoError(t, err)
	second, err := GetStudentDues(db, f.tenantID, f.studentID, now)
	require.NoError(t, err)

	require.Len(t, second, 4)
	for i := range first {
		assert.Equal(t, first[i].PaymentDueID, second[i].PaymentDueID)
	}
}

func TestGetStudentDuesFlipsPastDueToOverdue(t *testing.T) {
	db := openTestDB(t)
	f := seedAllocatedStudent(t, db, decimal.NewFromInt(1200))

	_, err := GetStudentDues(db, f.tenantID, f.studentID, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// two months later the August due (payable by Sep 10) has lapsed
	dues, err := GetStudentDues(db, f.tenantID, f.studentID, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	byMonth := map[string]string{}
	for _, d := range dues {
		byMonth[d.PaymentDueMonthYear] = d.PaymentDueStatus
	}
	assert.Equal(t, model.PaymentDueStatusOverdue, byMonth["2026-08"])
	assert.Equal(t, model.PaymentDueStatusOverdue, byMonth["2026-09"])
	assert.Equal(t, model.PaymentDueStatusPending, byMonth["2026-10"])
	assert.Equal(t, model.PaymentDueStatusPending, byMonth["2026-11"])
}

func TestGetStudentDuesRepricesOnlyUnpaid(t *testing.T) {
	db := openTestDB(t)
	oldFee := decimal.NewFromInt(1200)
	newFee := decimal.NewFromInt(1500)
	f := seedAllocatedStudent(t, db, oldFee)
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	_, err := GetStudentDues(db, f.tenantID, f.studentID, now)
	require.NoError(t, err)

	// pay August before the fee changes
	require.NoError(t, db.Model(&model.PaymentDueModel{}).
		Where("payment_due_tenant_id = ? AND payment_due_student_id = ? AND payment_due_month_year = ?",
			f.tenantID, f.studentID, "2026-08").
		Updates(map[string]interface{}{
			"payment_due_status":      model.PaymentDueStatusPaid,
			"payment_due_paid_amount": oldFee,
		}).Error)

	_, err = feeService.SetRoomFee(db, f.tenantID, f.roomID, newFee)
	require.NoError(t, err)

	dues, err := GetStudentDues(db, f.tenantID, f.studentID, now)
	require.NoError(t, err)

	for _, d := range dues {
		if d.PaymentDueMonthYear == "2026-08" {
			assert.Equal(t, model.PaymentDueStatusPaid, d.PaymentDueStatus)
			assert.True(t, d.PaymentDueAmount.Equal(oldFee), "paid due must keep its amount, got %s", d.PaymentDueAmount)
		} else {
			assert.True(t, d.PaymentDueAmount.Equal(newFee), "unpaid due %s must be repriced, got %s",
				d.PaymentDueMonthYear, d.PaymentDueAmount)
		}
	}
}

func TestGetStudentDuesWithoutAllocation(t *testing.T) {
	db := openTestDB(t)

	_, err := GetStudentDues(db, uuid.New(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrNoActiveAllocation)
}

func TestGetStudentDuesWithoutFeeStructure(t *testing.T) {
	db := openTestDB(t)
	f := seedAllocatedStudent(t, db, decimal.NewFromInt(1200))

	// close the only fee version so the room has no active fee
	require.NoError(t, db.Model(&feeModel.FeeStructureModel{}).
		Where("fee_structure_room_id = ?", f.roomID).
		Update("fee_structure_effective_to", time.Now()).Error)

	_, err := GetStudentDues(db, f.tenantID, f.studentID, time.Now())
	assert.ErrorIs(t, err, ErrNoFeeStructure)
}
