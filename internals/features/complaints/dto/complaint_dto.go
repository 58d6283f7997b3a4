package dto

import "github.com/google/uuid"

type CreateComplaintRequest struct {
	Category    string     `json:"category" validate:"required,max=40"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"required"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	RoomID      *uuid.UUID `json:"room_id"`
}

type UpdateComplaintStatusRequest struct {
	Status          string  `json:"status" validate:"required"`
	ResolutionNotes *string `json:"resolution_notes"`
	Comment         *string `json:"comment"`
}

type AddCommentRequest struct {
	Text       string `json:"text" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}
