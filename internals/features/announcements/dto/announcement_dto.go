package dto

import "time"

type CreateAnnouncementRequest struct {
	Title    string     `json:"title" validate:"required,max=200"`
	Body     string     `json:"body" validate:"required"`
	Audience string     `json:"audience" validate:"omitempty,oneof=ALL STUDENTS WARDENS"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

type UpdateAnnouncementRequest struct {
	Title    *string    `json:"title" validate:"omitempty,max=200"`
	Body     *string    `json:"body"`
	Audience *string    `json:"audience" validate:"omitempty,oneof=ALL STUDENTS WARDENS"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	IsActive *bool      `json:"is_active"`
}
