package request

import (
	"github.com/google/uuid"
)

type AdjustCreditsRequest struct {
	UserID         uuid.UUID         `json:"user_id" binding:"required"`
	EntryType      string            `json:"entry_type" binding:"required,oneof=credit debit"`
	Credits        int64             `json:"credits" binding:"required,gt=0"`
	Reason         string            `json:"reason" binding:"omitempty,oneof=purchase refund adjust"`
	IdempotencyKey *string           `json:"idempotency_key,omitempty" binding:"omitempty,max=128"`
	AllowNegative  bool              `json:"allow_negative"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type RefundRequest struct {
	ReservationID uuid.UUID `json:"reservation_id" binding:"required"`
	Reason        string    `json:"reason" binding:"omitempty,max=500"`
}
