package response

import (
	"time"

	"courtside/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID            uuid.UUID  `json:"id"`
	CourtID       uuid.UUID  `json:"court_id"`
	CourtName     string     `json:"court_name"`
	UserID        uuid.UUID  `json:"user_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	PaymentMethod string     `json:"payment_method"`
	PriceCents    int64      `json:"price_cents"`
	CheckInTime   *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime  *time.Time `json:"check_out_time,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Note          *string    `json:"note,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ReservationListResponse struct {
	ID         uuid.UUID `json:"id"`
	CourtID    uuid.UUID `json:"court_id"`
	CourtName  string    `json:"court_name"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:            v.ID,
		CourtID:       v.CourtID,
		CourtName:     v.CourtName,
		UserID:        v.UserID,
		StartTime:     v.StartTime,
		EndTime:       v.EndTime,
		Status:        v.Status,
		PaymentStatus: v.PaymentStatus,
		PaymentMethod: v.PaymentMethod,
		PriceCents:    v.PriceCents,
		CheckInTime:   v.CheckInTime,
		CheckOutTime:  v.CheckOutTime,
		ExpiresAt:     v.ExpiresAt,
		Note:          v.Note,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func FromReservationListItem(item *queries.ReservationListItem) *ReservationListResponse {
	return &ReservationListResponse{
		ID:         item.ID,
		CourtID:    item.CourtID,
		CourtName:  item.CourtName,
		StartTime:  item.StartTime,
		EndTime:    item.EndTime,
		Status:     item.Status,
		PriceCents: item.PriceCents,
		CreatedAt:  item.CreatedAt,
	}
}
