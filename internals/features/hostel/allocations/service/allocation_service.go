// file: internals/features/hostel/allocations/service/allocation_service.go
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "hostelku_backend/internals/features/hostel/allocations/model"
	buildingModel "hostelku_backend/internals/features/hostel/buildings/model"
	floorModel "hostelku_backend/internals/features/hostel/floors/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	helper "hostelku_backend/internals/helpers"
)

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomFull             = errors.New("room is full")
	ErrRoomUnderMaintenance = errors.New("room is under maintenance")
	ErrAlreadyAllocated     = errors.New("student already has an active allocation")
	ErrAllocationNotFound   = errors.New("allocation not found")
	ErrAllocationNotActive  = errors.New("allocation is not active")
)

// AllocateRoom links a student to a room. The room row is locked FOR UPDATE
// for the whole transaction, so the occupancy counter can never lose an
// update under concurrent allocate/vacate, and the one-ACTIVE-per-student
// rule is checked under the same lock.
func AllocateRoom(db *gorm.DB, tenantID, studentID, roomID uuid.UUID) (*model.AllocationModel, error) {
	var allocation *model.AllocationModel

	err := db.Transaction(func(tx *gorm.DB) error {
		var room roomModel.RoomModel
		if err := helper.LockForUpdate(tx).
			Where("room_id = ? AND room_tenant_id = ?", roomID, tenantID).
			First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		if room.RoomStatus == roomModel.RoomStatusMaintenance {
			return ErrRoomUnderMaintenance
		}
		if room.RoomOccupied >= room.RoomCapacity {
			return ErrRoomFull
		}

		var active int64
		if err := tx.Model(&model.AllocationModel{}).
			Where("allocation_tenant_id = ? AND allocation_student_id = ? AND allocation_status = ?",
				tenantID, studentID, model.AllocationStatusActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrAlreadyAllocated
		}

		allocation = &model.AllocationModel{
			AllocationTenantID:    tenantID,
			AllocationStudentID:   studentID,
			AllocationRoomID:      room.RoomID,
			AllocationStatus:      model.AllocationStatusActive,
			AllocationAllocatedAt: time.Now(),
		}
		if err := tx.Create(allocation).Error; err != nil {
			return err
		}

		wasEmpty := room.RoomOccupied == 0
		room.RoomOccupied++
		if room.RoomOccupied == room.RoomCapacity {
			room.RoomStatus = roomModel.RoomStatusFull
		}
		if err := tx.Model(&roomModel.RoomModel{}).
			Where("room_id = ?", room.RoomID).
			Updates(map[string]interface{}{
				"room_occupied": room.RoomOccupied,
				"room_status":   room.RoomStatus,
			}).Error; err != nil {
			return err
		}

		// occupied_rooms counts rooms with at least one occupant
		if wasEmpty {
			if err := bumpOccupiedRooms(tx, room, +1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return allocation, nil
}

// VacateAllocation ends an ACTIVE allocation and reverses the counters,
// under the same room lock as AllocateRoom.
func VacateAllocation(db *gorm.DB, tenantID, allocationID uuid.UUID) (*model.AllocationModel, error) {
	var allocation model.AllocationModel

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("allocation_id = ? AND allocation_tenant_id = ?", allocationID, tenantID).
			First(&allocation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAllocationNotFound
			}
			return err
		}
		if allocation.AllocationStatus != model.AllocationStatusActive {
			return ErrAllocationNotActive
		}

		var room roomModel.RoomModel
		if err := helper.LockForUpdate(tx).
			Where("room_id = ?", allocation.AllocationRoomID).
			First(&room).Error; err != nil {
			return err
		}

		now := time.Now()
		allocation.AllocationStatus = model.AllocationStatusVacated
		allocation.AllocationVacatedAt = &now
		if err := tx.Save(&allocation).Error; err != nil {
			return err
		}

		if room.RoomOccupied > 0 {
			room.RoomOccupied--
		}
		if room.RoomStatus == roomModel.RoomStatusFull && room.RoomOccupied < room.RoomCapacity {
			room.RoomStatus = roomModel.RoomStatusAvailable
		}
		if err := tx.Model(&roomModel.RoomModel{}).
			Where("room_id = ?", room.RoomID).
			Updates(map[string]interface{}{
				"room_occupied": room.RoomOccupied,
				"room_status":   room.RoomStatus,
			}).Error; err != nil {
			return err
		}

		if room.RoomOccupied == 0 {
			if err := bumpOccupiedRooms(tx, room, -1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

func bumpOccupiedRooms(tx *gorm.DB, room roomModel.RoomModel, delta int) error {
	floorQ := tx.Model(&floorModel.FloorModel{}).Where("floor_id = ?", room.RoomFloorID)
	buildingQ := tx.Model(&buildingModel.BuildingModel{}).Where("building_id = ?", room.RoomBuildingID)
	if delta < 0 {
		floorQ = floorQ.Where("floor_occupied_rooms > 0")
		buildingQ = buildingQ.Where("building_occupied_rooms > 0")
	}
	if err := floorQ.UpdateColumn("floor_occupied_rooms", gorm.Expr("floor_occupied_rooms + ?", delta)).Error; err != nil {
		return err
	}
	return buildingQ.UpdateColumn("building_occupied_rooms", gorm.Expr("building_occupied_rooms + ?", delta)).Error
}

// ActiveAllocationForStudent resolves the student's single ACTIVE
// allocation, preloading the room.
func ActiveAllocationForStudent(db *gorm.DB, tenantID, studentID uuid.UUID) (*model.AllocationModel, error) {
	var allocation model.AllocationModel
	err := db.
		Preload("Room").
		Where("allocation_tenant_id = ? AND allocation_student_id = ? AND allocation_status = ?",
			tenantID, studentID, model.AllocationStatusActive).
		First(&allocation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, err
	}
	return &allocation, nil
}
