package dto

import "github.com/google/uuid"

type CreateAllocationRequest struct {
	AllocationStudentID uuid.UUID `json:"allocation_student_id" validate:"required"`
	AllocationRoomID    uuid.UUID `json:"allocation_room_id" validate:"required"`
}
