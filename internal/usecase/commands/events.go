package commands

import (
	"context"
	"encoding/json"
	"time"

	"courtside/internal/domain/reservation"
	"courtside/internal/pkg/errs"
	"courtside/internal/usecase/shared"

	"github.com/google/uuid"
)

// Outbox event types. Consumers downstream key off these, so renames are
// breaking changes.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationPaid      = "reservation.paid"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationCheckedIn = "reservation.checked_in"
	EventReservationCompleted = "reservation.completed"
	EventReservationExpired   = "reservation.expired"
	EventReservationNoShow    = "reservation.no_show"
	EventPaymentRefunded      = "payment.refunded"
	EventWalletAdjusted       = "wallet.adjusted"
)

type reservationEventPayload struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	CourtID       uuid.UUID `json:"court_id"`
	UserID        uuid.UUID `json:"user_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	PriceCents    int64     `json:"price_cents"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type walletEventPayload struct {
	EntryID      uuid.UUID `json:"entry_id"`
	UserID       uuid.UUID `json:"user_id"`
	EntryType    string    `json:"entry_type"`
	Credits      int64     `json:"credits"`
	BalanceAfter int64     `json:"balance_after"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func appendReservationEvent(ctx context.Context, tx shared.Tx, eventType string, res *reservation.Reservation, occurredAt time.Time) error {
	payload, err := json.Marshal(reservationEventPayload{
		ReservationID: res.ID(),
		CourtID:       res.CourtID(),
		UserID:        res.UserID(),
		Status:        res.Status().String(),
		PaymentStatus: res.PaymentStatus().String(),
		StartTime:     res.Slot().Start(),
		EndTime:       res.Slot().End(),
		PriceCents:    res.Price().Cents(),
		OccurredAt:    occurredAt,
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode reservation event")
	}
	return tx.Outbox().Append(ctx, eventType, payload)
}
