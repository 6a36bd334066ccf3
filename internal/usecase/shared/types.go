package shared

import (
	"time"

	"github.com/google/uuid"
)

type CourtSnapshot struct {
	ID        uuid.UUID
	Name      string
	Sport     string
	OpenHour  int
	CloseHour int
}

type RateCardSnapshot struct {
	ID              uuid.UUID
	CourtID         uuid.UUID
	DayRateCents    int64
	NightRateCents  int64
	NightStartsHour int
	ValidFrom       time.Time
	ValidTo         *time.Time
}

type TariffGrantSnapshot struct {
	TariffID        uuid.UUID
	Segment         string
	DiscountPercent float64
	ValidFrom       time.Time
	ValidTo         *time.Time
	Enrollment      string
}

// Minimal snapshot for pre-transaction validation; authoritative state is
// re-read with a row lock inside the transaction.
type ReservationSnapshot struct {
	ID      uuid.UUID
	CourtID uuid.UUID
	UserID  uuid.UUID
	Status  string
	EndTime time.Time
}
