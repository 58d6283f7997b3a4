// file: internals/features/hostel/rooms/controller/room_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	allocationModel "hostelku_backend/internals/features/hostel/allocations/model"
	buildingModel "hostelku_backend/internals/features/hostel/buildings/model"
	floorModel "hostelku_backend/internals/features/hostel/floors/model"
	dto "hostelku_backend/internals/features/hostel/rooms/dto"
	model "hostelku_backend/internals/features/hostel/rooms/model"
	helper "hostelku_backend/internals/helpers"
)

type RoomController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewRoomController(db *gorm.DB) *RoomController {
	return &RoomController{DB: db, Validator: validator.New()}
}

// resolveFloor maps (building, floor number) to an existing floor. Floors
// are never auto-created from the room endpoint.
func (ctl *RoomController) resolveFloor(tx *gorm.DB, tenantID, buildingID uuid.UUID, floorNumber int) (*floorModel.FloorModel, error) {
	var floor floorModel.FloorModel
	err := tx.
		Where("floor_building_id = ? AND floor_tenant_id = ? AND floor_number = ?", buildingID, tenantID, floorNumber).
		First(&floor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Floor not found in this building")
		}
		return nil, err
	}
	return &floor, nil
}

// ========== Create ==========
func (ctl *RoomController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var req dto.CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	room := &model.RoomModel{
		RoomTenantID:   tenantID,
		RoomBuildingID: req.RoomBuildingID,
		RoomNumber:     strings.TrimSpace(req.RoomNumber),
		RoomType:       req.RoomType,
		RoomCapacity:   req.RoomCapacity,
		RoomStatus:     model.RoomStatusAvailable,
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		floor, err := ctl.resolveFloor(tx, tenantID, req.RoomBuildingID, req.FloorNumber)
		if err != nil {
			return err
		}

		// room numbers are unique tenant-wide, not per building
		var count int64
		if err := tx.Model(&model.RoomModel{}).
			Where("room_tenant_id = ? AND room_number = ?", tenantID, room.RoomNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Room number already exists")
		}

		room.RoomFloorID = floor.FloorID
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		if err := tx.Model(&floorModel.FloorModel{}).
			Where("floor_id = ?", floor.FloorID).
			UpdateColumn("floor_total_rooms", gorm.Expr("floor_total_rooms + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&buildingModel.BuildingModel{}).
			Where("building_id = ?", req.RoomBuildingID).
			UpdateColumn("building_total_rooms", gorm.Expr("building_total_rooms + 1")).Error
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		log.Println("[ERROR] Failed to create room:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create room")
	}

	return helper.JsonCreated(c, "Room created", room)
}

// ========== Detail ==========
// Returns the room with nested floor/building and its ACTIVE allocations
// carrying a minimal student projection.
func (ctl *RoomController) GetByID(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid room id")
	}

	var room model.RoomModel
	if err := ctl.DB.
		Preload("Floor").Preload("Building").
		Where("room_id = ? AND room_tenant_id = ?", id, tenantID).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Room not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch room")
	}

	var allocations []allocationModel.AllocationModel
	if err := ctl.DB.
		Preload("Student").
		Where("allocation_room_id = ? AND allocation_status = ?", room.RoomID, allocationModel.AllocationStatusActive).
		Find(&allocations).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch allocations")
	}

	occupants := make([]fiber.Map, 0, len(allocations))
	for _, a := range allocations {
		entry := fiber.Map{
			"allocation_id": a.AllocationID,
			"allocated_at":  a.AllocationAllocatedAt,
		}
		if a.Student != nil {
			entry["student"] = dto.StudentProjection{
				StudentID: a.Student.StudentID,
				Name:      a.Student.StudentName,
				Phone:     a.Student.StudentPhone,
			}
		}
		occupants = append(occupants, entry)
	}

	return helper.JsonOK(c, "Room fetched", fiber.Map{
		"room":        room,
		"allocations": occupants,
	})
}

// ========== List ==========
// Filters: ?floor_number= &room_type= &status=; ordered by room number asc.
func (ctl *RoomController) List(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.RoomModel{}).Where("room_tenant_id = ?", tenantID)

	if fn := c.Query("floor_number"); fn != "" {
		q = q.Joins("JOIN floors ON floors.floor_id = rooms.room_floor_id").
			Where("floors.floor_number = ?", c.QueryInt("floor_number"))
	}
	if rt := strings.TrimSpace(c.Query("room_type")); rt != "" {
		q = q.Where("room_type = ?", rt)
	}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		q = q.Where("room_status = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch rooms")
	}

	var rooms []model.RoomModel
	if err := q.Order("room_number ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rooms).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch rooms")
	}

	return helper.JsonList(c, "Rooms fetched", fiber.Map{
		"rooms": rooms,
		"total": total,
	}, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

// ========== Update ==========
func (ctl *RoomController) Update(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid room id")
	}

	var room model.RoomModel
	if err := ctl.DB.
		Where("room_id = ? AND room_tenant_id = ?", id, tenantID).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Room not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch room")
	}

	var req dto.UpdateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if req.RoomNumber != nil && strings.TrimSpace(*req.RoomNumber) != room.RoomNumber {
		var count int64
		if err := ctl.DB.Model(&model.RoomModel{}).
			Where("room_tenant_id = ? AND room_number = ? AND room_id <> ?", tenantID, strings.TrimSpace(*req.RoomNumber), room.RoomID).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update room")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Room number already exists")
		}
	}
	if req.RoomCapacity != nil && *req.RoomCapacity < room.RoomOccupied {
		return fiber.NewError(fiber.StatusBadRequest, "Capacity cannot be lower than current occupancy")
	}

	req.ApplyTo(&room)

	// keep status consistent with the occupancy invariant
	if room.RoomStatus != model.RoomStatusMaintenance {
		if room.RoomOccupied >= room.RoomCapacity {
			room.RoomStatus = model.RoomStatusFull
		} else {
			room.RoomStatus = model.RoomStatusAvailable
		}
	}

	if err := ctl.DB.Save(&room).Error; err != nil {
		log.Println("[ERROR] Failed to update room:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update room")
	}
	return helper.JsonUpdated(c, "Room updated", room)
}

// ========== Delete ==========
func (ctl *RoomController) Delete(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid room id")
	}

	var room model.RoomModel
	if err := ctl.DB.
		Where("room_id = ? AND room_tenant_id = ?", id, tenantID).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Room not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch room")
	}

	var active int64
	if err := ctl.DB.Model(&allocationModel.AllocationModel{}).
		Where("allocation_room_id = ? AND allocation_status = ?", room.RoomID, allocationModel.AllocationStatusActive).
		Count(&active).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete room")
	}
	if active > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot delete room with active allocations. Deallocate students first.")
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&room).Error; err != nil {
			return err
		}
		if err := tx.Model(&floorModel.FloorModel{}).
			Where("floor_id = ? AND floor_total_rooms > 0", room.RoomFloorID).
			UpdateColumn("floor_total_rooms", gorm.Expr("floor_total_rooms - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&buildingModel.BuildingModel{}).
			Where("building_id = ? AND building_total_rooms > 0", room.RoomBuildingID).
			UpdateColumn("building_total_rooms", gorm.Expr("building_total_rooms - 1")).Error
	})
	if err != nil {
		log.Println("[ERROR] Failed to delete room:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete room")
	}
	return helper.JsonDeleted(c, "Room deleted", fiber.Map{"room_id": room.RoomID})
}

// ========== Bulk create ==========
// Generates "{floor}-{seq:02d}" room numbers for the requested range,
// skipping numbers that already exist. Check and insert run inside one
// transaction so two overlapping bulk calls cannot double-create.
func (ctl *RoomController) BulkCreate(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var req dto.BulkCreateRoomsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.EndRoomNumber < req.StartRoomNumber {
		return fiber.NewError(fiber.StatusBadRequest, "end_room_number must be >= start_room_number")
	}
	if req.EndRoomNumber-req.StartRoomNumber+1 > 200 {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot create more than 200 rooms at once")
	}

	var created []model.RoomModel
	var skipped []string

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		floor, err := ctl.resolveFloor(tx, tenantID, req.RoomBuildingID, req.FloorNumber)
		if err != nil {
			return err
		}

		var existing []string
		if err := tx.Model(&model.RoomModel{}).
			Where("room_tenant_id = ?", tenantID).
			Pluck("room_number", &existing).Error; err != nil {
			return err
		}
		taken := make(map[string]struct{}, len(existing))
		for _, n := range existing {
			taken[n] = struct{}{}
		}

		for seq := req.StartRoomNumber; seq <= req.EndRoomNumber; seq++ {
			number := fmt.Sprintf("%d-%02d", req.FloorNumber, seq)
			if _, exists := taken[number]; exists {
				skipped = append(skipped, number)
				continue
			}
			room := model.RoomModel{
				RoomTenantID:   tenantID,
				RoomBuildingID: req.RoomBuildingID,
				RoomFloorID:    floor.FloorID,
				RoomNumber:     number,
				RoomType:       req.RoomType,
				RoomCapacity:   req.RoomCapacity,
				RoomStatus:     model.RoomStatusAvailable,
			}
			if err := tx.Create(&room).Error; err != nil {
				return err
			}
			created = append(created, room)
		}

		if len(created) > 0 {
			if err := tx.Model(&floorModel.FloorModel{}).
				Where("floor_id = ?", floor.FloorID).
				UpdateColumn("floor_total_rooms", gorm.Expr("floor_total_rooms + ?", len(created))).Error; err != nil {
				return err
			}
			return tx.Model(&buildingModel.BuildingModel{}).
				Where("building_id = ?", req.RoomBuildingID).
				UpdateColumn("building_total_rooms", gorm.Expr("building_total_rooms + ?", len(created))).Error
		}
		return nil
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		log.Println("[ERROR] Bulk room create failed:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create rooms")
	}

	return helper.JsonCreated(c, "Rooms created", fiber.Map{
		"created": created,
		"skipped": skipped,
	})
}

// ========== Occupancy report ==========
func (ctl *RoomController) Occupancy(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var rooms []model.RoomModel
	if err := ctl.DB.
		Where("room_tenant_id = ?", tenantID).
		Order("room_number ASC").
		Find(&rooms).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch occupancy")
	}

	rows := make([]dto.RoomOccupancyRow, 0, len(rooms))
	for _, r := range rooms {
		pct := 0.0
		if r.RoomCapacity > 0 {
			pct = math.Round(float64(r.RoomOccupied)/float64(r.RoomCapacity)*10000) / 100
		}
		rows = append(rows, dto.RoomOccupancyRow{
			RoomID:              r.RoomID,
			RoomNumber:          r.RoomNumber,
			RoomCapacity:        r.RoomCapacity,
			RoomOccupied:        r.RoomOccupied,
			Available:           r.RoomCapacity - r.RoomOccupied,
			OccupancyPercentage: pct,
		})
	}
	return helper.JsonOK(c, "Occupancy fetched", rows)
}
