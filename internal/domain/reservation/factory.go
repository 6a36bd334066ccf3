package reservation

import (
	"time"

	"courtside/internal/pkg/clock"

	"github.com/google/uuid"
)

// CourtSpec is the snapshot of court data the factory needs; the court
// registry itself is owned elsewhere.
type CourtSpec struct {
	ID        uuid.UUID
	Name      string
	Sport     string
	OpenHour  int
	CloseHour int
}

type Factory struct {
	Clock                clock.Clock
	HoldWindow           time.Duration
	AsyncSettlementGrace time.Duration
}

func NewFactory(clock clock.Clock, holdWindow, asyncGrace time.Duration) *Factory {
	return &Factory{
		Clock:                clock,
		HoldWindow:           holdWindow,
		AsyncSettlementGrace: asyncGrace,
	}
}

func (f *Factory) CreatePending(
	court CourtSpec,
	userID uuid.UUID,
	slot TimeSlot,
	method PaymentMethod,
	priceCents int64,
	note Note,
) (*Reservation, error) {
	now := f.Clock.Now()

	if !slot.Start().After(now) {
		return nil, ErrInvalidTimeSlot
	}
	if !slot.WithinHours(court.OpenHour, court.CloseHour) {
		return nil, ErrOutsideHours
	}

	price, err := NewMoney(priceCents)
	if err != nil {
		return nil, ErrNegativePrice
	}

	return NewPending(court.ID, userID, slot, method, price, note, now, f.HoldWindow, f.AsyncSettlementGrace)
}
