package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SetRoomFeeRequest struct {
	RoomID     uuid.UUID       `json:"room_id" validate:"required"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
}
