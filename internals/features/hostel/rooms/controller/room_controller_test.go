package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	allocationModel "hostelku_backend/internals/features/hostel/allocations/model"
	allocationService "hostelku_backend/internals/features/hostel/allocations/service"
	buildingModel "hostelku_backend/internals/features/hostel/buildings/model"
	floorModel "hostelku_backend/internals/features/hostel/floors/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	hostelRoutes "hostelku_backend/internals/features/hostel/routes"
	studentModel "hostelku_backend/internals/features/hostel/students/model"
	helper "hostelku_backend/internals/helpers"
)

type env struct {
	app        *fiber.App
	db         *gorm.DB
	tenantID   uuid.UUID
	buildingID uuid.UUID
	floorID    uuid.UUID
}

func newEnv(t *testing.T) *env {
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
		&studentModel.StudentModel{},
	))

	e := &env{db: db, tenantID: uuid.New()}

	building := buildingModel.BuildingModel{
		BuildingTenantID:    e.tenantID,
		BuildingName:        "Block A",
		BuildingCode:        "A",
		BuildingTotalFloors: 1,
	}
	require.NoError(t, db.Create(&building).Error)
	e.buildingID = building.BuildingID

	floor := floorModel.FloorModel{
		FloorTenantID:   e.tenantID,
		FloorBuildingID: building.BuildingID,
		FloorNumber:     1,
	}
	require.NoError(t, db.Create(&floor).Error)
	e.floorID = floor.FloorID

	e.app = fiber.New()
	admin := e.app.Group("/api/a", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, uuid.New().String())
		c.Locals(helper.LocTenantID, e.tenantID.String())
		c.Locals(helper.LocRole, "admin")
		return c.Next()
	})
	hostelRoutes.HostelAdminRoutes(admin, db)
	return e
}

func (e *env) request(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *env) roomNumbers(t *testing.T) []string {
	t.Helper()
	var numbers []string
	require.NoError(t, e.db.Model(&roomModel.RoomModel{}).
		Where("room_tenant_id = ?", e.tenantID).
		Order("room_number ASC").
		Pluck("room_number", &numbers).Error)
	return numbers
}

func TestCreateRoom(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodPost, "/api/a/rooms/", fiber.Map{
		"room_building_id": e.buildingID,
		"floor_number":     1,
		"room_number":      "1-01",
		"room_type":        "DOUBLE",
		"room_capacity":    2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// counters follow the insert
	var building buildingModel.BuildingModel
	require.NoError(t, e.db.First(&building, "building_id = ?", e.buildingID).Error)
	assert.Equal(t, 1, building.BuildingTotalRooms)

	// duplicate number in the tenant is rejected
	resp = e.request(t, http.MethodPost, "/api/a/rooms/", fiber.Map{
		"room_building_id": e.buildingID,
		"floor_number":     1,
		"room_number":      "1-01",
		"room_type":        "SINGLE",
		"room_capacity":    1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateRoomFloorMustExist(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodPost, "/api/a/rooms/", fiber.Map{
		"room_building_id": e.buildingID,
		"floor_number":     9,
		"room_number":      "9-01",
		"room_type":        "DOUBLE",
		"room_capacity":    2,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, e.roomNumbers(t))
}

func TestBulkCreateRoomsSkipsExisting(t *testing.T) {
	e := newEnv(t)

	body := fiber.Map{
		"room_building_id":  e.buildingID,
		"floor_number":      1,
		"start_room_number": 1,
		"end_room_number":   3,
		"room_type":         "DOUBLE",
		"room_capacity":     2,
	}
	resp := e.request(t, http.MethodPost, "/api/a/rooms/bulk", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{"1-01", "1-02", "1-03"}, e.roomNumbers(t))

	// a second overlapping call creates nothing new
	resp = e.request(t, http.MethodPost, "/api/a/rooms/bulk", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Created []roomModel.RoomModel `json:"created"`
		Skipped []string              `json:"skipped"`
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, &out))
	assert.Empty(t, out.Created)
	assert.Equal(t, []string{"1-01", "1-02", "1-03"}, out.Skipped)
	assert.Len(t, e.roomNumbers(t), 3)

	// total counter reflects only real inserts
	var building buildingModel.BuildingModel
	require.NoError(t, e.db.First(&building, "building_id = ?", e.buildingID).Error)
	assert.Equal(t, 3, building.BuildingTotalRooms)
}

func TestBulkCreateRoomsRangeLimit(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodPost, "/api/a/rooms/bulk", fiber.Map{
		"room_building_id":  e.buildingID,
		"floor_number":      1,
		"start_room_number": 1,
		"end_room_number":   500,
		"room_type":         "DORM",
		"room_capacity":     8,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, e.roomNumbers(t))
}

func TestDeleteRoomWithActiveAllocation(t *testing.T) {
	e := newEnv(t)

	room := roomModel.RoomModel{
		RoomTenantID:   e.tenantID,
		RoomBuildingID: e.buildingID,
		RoomFloorID:    e.floorID,
		RoomNumber:     "1-01",
		RoomType:       roomModel.RoomTypeDouble,
		RoomCapacity:   2,
		RoomStatus:     roomModel.RoomStatusAvailable,
	}
	require.NoError(t, e.db.Create(&room).Error)

	alloc, err := allocationService.AllocateRoom(e.db, e.tenantID, uuid.New(), room.RoomID)
	require.NoError(t, err)

	resp := e.request(t, http.MethodDelete, "/api/a/rooms/"+room.RoomID.String(), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// after vacating, deletion goes through
	_, err = allocationService.VacateAllocation(e.db, e.tenantID, alloc.AllocationID)
	require.NoError(t, err)

	resp = e.request(t, http.MethodDelete, "/api/a/rooms/"+room.RoomID.String(), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, e.roomNumbers(t))
}

func TestOccupancyReport(t *testing.T) {
	e := newEnv(t)

	room := roomModel.RoomModel{
		RoomTenantID:   e.tenantID,
		RoomBuildingID: e.buildingID,
		RoomFloorID:    e.floorID,
		RoomNumber:     "1-01",
		RoomType:       roomModel.RoomTypeTriple,
		RoomCapacity:   3,
		RoomStatus:     roomModel.RoomStatusAvailable,
	}
	require.NoError(t, e.db.Create(&room).Error)
	_, err := allocationService.AllocateRoom(e.db, e.tenantID, uuid.New(), room.RoomID)
	require.NoError(t, err)

	resp := e.request(t, http.MethodGet, "/api/a/rooms/occupancy", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data []struct {
			RoomNumber          string  `json:"room_number"`
			RoomOccupied        int     `json:"room_occupied"`
			Available           int     `json:"available"`
			OccupancyPercentage float64 `json:"occupancy_percentage"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, 1, envelope.Data[0].RoomOccupied)
	assert.Equal(t, 2, envelope.Data[0].Available)
	assert.InDelta(t, 33.33, envelope.Data[0].OccupancyPercentage, 0.01)
}
