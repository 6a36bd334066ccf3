package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	CourtID       uuid.UUID `json:"court_id" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	PaymentMethod string    `json:"payment_method" binding:"required,oneof=credits gateway bank_transfer on_site courtesy"`
	Note          *string   `json:"note,omitempty"`
}

func (r CreateReservationRequest) GetNote() string {
	if r.Note == nil {
		return ""
	}
	return strings.TrimSpace(*r.Note)
}

type CancelReservationRequest struct {
	Note *string `json:"note,omitempty"`
}

func (r CancelReservationRequest) GetNote() string {
	if r.Note == nil {
		return ""
	}
	return strings.TrimSpace(*r.Note)
}
