package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	model "hostelku_backend/internals/features/hostel/allocations/model"
	buildingModel "hostelku_backend/internals/features/hostel/buildings/model"
	floorModel "hostelku_backend/internals/features/hostel/floors/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
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
		&model.AllocationModel{},
	))
	return db
}

type fixture struct {
	tenantID uuid.UUID
	building buildingModel.BuildingModel
	floor    floorModel.FloorModel
	room     roomModel.RoomModel
}

func seedRoom(t *testing.T, db *gorm.DB, capacity int) fixture {
	t.Helper()
	f := fixture{tenantID: uuid.New()}

	f.building = buildingModel.BuildingModel{
		BuildingTenantID: f.tenantID,
		BuildingName:     "Block A",
		BuildingCode:     "A",
		BuildingTotalFloors: 1,
		BuildingTotalRooms:  1,
	}
	require.NoError(t, db.Create(&f.building).Error)

	f.floor = floorModel.FloorModel{
		FloorTenantID:   f.tenantID,
		FloorBuildingID: f.building.BuildingID,
		FloorNumber:     1,
		FloorTotalRooms: 1,
	}
	require.NoError(t, db.Create(&f.floor).Error)

	f.room = roomModel.RoomModel{
		RoomTenantID:   f.tenantID,
		RoomBuildingID: f.building.BuildingID,
		RoomFloorID:    f.floor.FloorID,
		RoomNumber:     "1-01",
		RoomType:       roomModel.RoomTypeDouble,
		RoomCapacity:   capacity,
		RoomStatus:     roomModel.RoomStatusAvailable,
	}
	require.NoError(t, db.Create(&f.room).Error)
	return f
}

func reloadRoom(t *testing.T, db *gorm.DB, id uuid.UUID) roomModel.RoomModel {
	t.Helper()
	var room roomModel.RoomModel
	require.NoError(t, db.First(&room, "room_id = ?", id).Error)
	return room
}

func TestAllocateRoomIncrementsCounters(t *testing.T) {
	db := openTestDB(t)
	f := seedRoom(t, db, 2)
	studentID := uuid.New()

	alloc, err := AllocateRoom(db, f.tenantID, studentID, f.room.RoomID)
	require.NoError(t, err)
	assert.Equal(t, model.AllocationStatusActive, alloc.AllocationStatus)

	room := reloadRoom(t, db, f.room.RoomID)
	assert.Equal(t, 1, room.RoomOccupied)
	assert.Equal(t, roomModel.RoomStatusAvailable, room.RoomStatus)

	// first occupant flips the room into the occupied_rooms counts
	var floor floorModel.FloorModel
	require.NoError(t, db.First(&floor, "floor_id = ?", f.floor.FloorID).Error)
	assert.Equal(t, 1, floor.FloorOccupiedRooms)

	var building buildingModel.BuildingModel
	require.NoError(t, db.First(&building, "building_id = ?", f.building.BuildingID).Error)
	assert.Equal(t, 1, building.BuildingOccupiedRooms)
}

func TestAllocateRoomBecomesFullAtCapacity(t *testing.T) {
	db := openTestDB(t)
	f := seedRoom(t, db, 2)

	_, err := AllocateRoom(db, f.tenantID, uuid.New(), f.room.RoomID)
	require.NoError(t, err)
	_, err = AllocateRoom(db, f.tenantID, uuid.New(), f.room.RoomID)
	require.NoError(t, err)

	room := reloadRoom(t, db, f.room.RoomID)
	assert.Equal(t, 2, room.RoomOccupied)
	assert.Equal(t, roomModel.RoomStatusFull, room.RoomStatus)

	// second occupant does not bump occupied_rooms again
	var building buildingModel.BuildingModel
	require.NoError(t, db.First(&building, "building_id = ?", f.building.BuildingID).Error)
	assert.Equal(t, 1, building.BuildingOccupiedRooms)

	_, err = AllocateRoom(db, f.tenantID, uuid.New(), f.room.RoomID)
	assert.ErrorIs(t, err, ErrRoomFull)

	// occupancy never exceeds capacity
	room = reloadRoom(t, db, f.room.RoomID)
	assert.Equal(t, 2, room.RoomOccupied)
}

func TestAllocateRoomRejectsSecondActiveAllocation(t *testing.T) {
	db := openTestDB(t)
	f := seedRoom(t, db, 4)
	studentID := uuid.New()

	_, err := AllocateRoom(db, f.tenantID, studentID, f.room.RoomID)
	require.NoError(t, err)

	_, err = AllocateRoom(db, f.tenantID, studentID, f.room.RoomID)
	assert.ErrorIs(t, err, ErrAlreadyAllocated)
}

func TestAllocateRoomUnderMaintenance(t *testing.T) {
	db := openTestDB(t)
	f := seedRoom(t, db, 2)
	require.NoError(t, db.Model(&roomModel.RoomModel{}).
		Where("room_id = ?", f.room.RoomID).
		Update("room_status", roomModel.RoomStatusMaintenance).Error)

	_, err := AllocateRoom(db, f.tenantID, uuid.New(), f.room.RoomID)
	assert.ErrorIs(t, err, ErrRoomUnderMaintenance)
}

func TestAllocateRoomUnknownRoom(t *testing.T) {
	db := openTestDB(t)
	f := seedRoom(t, db, 2)

	_, err := AllocateRoom(db, f.tenantID, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrRoomNotFound)

	// a room from another tenant is invisible
	_, err = AllocateRoom(db, uuid.New(), uuid.New(), f.room.RoomID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestVacateReversesCountersAndReopensRoom(t *testing.T) {
	db := openTestDB(t)
	f := seedRoom(t, db, 1)
	studentID := uuid.New()

	alloc, err := AllocateRoom(db, f.tenantID, studentID, f.room.RoomID)
	require.NoError(t, err)
	assert.Equal(t, roomModel.RoomStatusFull, reloadRoom(t, db, f.room.RoomID).RoomStatus)

	vacated, err := VacateAllocation(db, f.tenantID, alloc.AllocationID)
	require.NoError(t, err)
	assert.Equal(t, model.AllocationStatusVacated, vacated.AllocationStatus)
	require.NotNil(t, vacated.AllocationVacatedAt)

	room := reloadRoom(t, db, f.room.RoomID)
	assert.Equal(t, 0, room.RoomOccupied)
	assert.Equal(t, roomModel.RoomStatusAvailable, room.RoomStatus)

	var building buildingModel.BuildingModel
	require.NoError(t, db.First(&building, "building_id = ?", f.building.BuildingID).Error)
	assert.Equal(t, 0, building.BuildingOccupiedRooms)

	// vacating twice is rejected
	_, err = VacateAllocation(db, f.tenantID, alloc.AllocationID)
	assert.ErrorIs(t, err, ErrAllocationNotActive)

	// and the student can be allocated again
	_, err = AllocateRoom(db, f.tenantID, studentID, f.room.RoomID)
	assert.NoError(t, err)
}

func TestActiveAllocationForStudent(t *testing.T) {
	db := openTestDB(t)
	f := seedRoom(t, db, 2)
	studentID := uuid.New()

	_, err := ActiveAllocationForStudent(db, f.tenantID, studentID)
	assert.ErrorIs(t, err, ErrAllocationNotFound)

	_, err = AllocateRoom(db, f.tenantID, studentID, f.room.RoomID)
	require.NoError(t, err)

	alloc, err := ActiveAllocationForStudent(db, f.tenantID, studentID)
	require.NoError(t, err)
	assert.Equal(t, f.room.RoomID, alloc.AllocationRoomID)
	require.NotNil(t, alloc.Room)
	assert.Equal(t, "1-01", alloc.Room.RoomNumber)
}
