// file: internals/features/hostel/rooms/dto/room_dto.go
package dto

import (
	"github.com/google/uuid"

	model "hostelku_backend/internals/features/hostel/rooms/model"
)

type CreateRoomRequest struct {
	RoomBuildingID uuid.UUID `json:"room_building_id" validate:"required"`
	FloorNumber    int       `json:"floor_number" validate:"min=0"`
	RoomNumber     string    `json:"room_number" validate:"required,max=20"`
	RoomType       string    `json:"room_type" validate:"required,oneof=SINGLE DOUBLE TRIPLE DORM"`
	RoomCapacity   int       `json:"room_capacity" validate:"required,gt=0"`
}

type UpdateRoomRequest struct {
	RoomNumber   *string `json:"room_number" validate:"omitempty,max=20"`
	RoomType     *string `json:"room_type" validate:"omitempty,oneof=SINGLE DOUBLE TRIPLE DORM"`
	RoomCapacity *int    `json:"room_capacity" validate:"omitempty,gt=0"`
	RoomStatus   *string `json:"room_status" validate:"omitempty,oneof=AVAILABLE FULL MAINTENANCE"`
}

func (r *UpdateRoomRequest) ApplyTo(room *model.RoomModel) {
	if r.RoomNumber != nil {
		room.RoomNumber = *r.RoomNumber
	}
	if r.RoomType != nil {
		room.RoomType = *r.RoomType
	}
	if r.RoomCapacity != nil {
		room.RoomCapacity = *r.RoomCapacity
	}
	if r.RoomStatus != nil {
		room.RoomStatus = *r.RoomStatus
	}
}

type BulkCreateRoomsRequest struct {
	RoomBuildingID  uuid.UUID `json:"room_building_id" validate:"required"`
	FloorNumber     int       `json:"floor_number" validate:"min=0"`
	StartRoomNumber int       `json:"start_room_number" validate:"required,gt=0"`
	EndRoomNumber   int       `json:"end_room_number" validate:"required,gt=0"`
	RoomType        string    `json:"room_type" validate:"required,oneof=SINGLE DOUBLE TRIPLE DORM"`
	RoomCapacity    int       `json:"room_capacity" validate:"required,gt=0"`
}

// StudentProjection is the minimal student view embedded in room detail.
type StudentProjection struct {
	StudentID uuid.UUID `json:"student_id"`
	Name      string    `json:"student_name"`
	Phone     *string   `json:"student_phone,omitempty"`
}

type RoomOccupancyRow struct {
	RoomID              uuid.UUID `json:"room_id"`
	RoomNumber          string    `json:"room_number"`
	RoomCapacity        int       `json:"room_capacity"`
	RoomOccupied        int       `json:"room_occupied"`
	Available           int       `json:"available"`
	OccupancyPercentage float64   `json:"occupancy_percentage"`
}
