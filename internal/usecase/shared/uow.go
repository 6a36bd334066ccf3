package shared

import (
	"context"
	"time"

	"courtside/internal/domain/reservation"
	"courtside/internal/domain/wallet"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: pool-backed reads for validation and sweep candidate
	// selection outside transactions.
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Ledger() LedgerRepository
	Outbox() OutboxRepository
	Reads() CommandReads
}

type ReservationRepository interface {
	// LockCourt takes an advisory transaction lock keyed by court id so
	// concurrent overlap checks on the same court serialize.
	LockCourt(ctx context.Context, courtID uuid.UUID) error
	HasOverlap(ctx context.Context, courtID uuid.UUID, slot reservation.TimeSlot) (bool, error)
	Create(ctx context.Context, r *reservation.Reservation) error
	// FindByIDForUpdate row-locks the reservation for the rest of the tx.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	Update(ctx context.Context, r *reservation.Reservation) error
}

type LedgerRepository interface {
	// LockWallet serializes balance reads-then-writes per user.
	LockWallet(ctx context.Context, userID uuid.UUID) error
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*wallet.Entry, error)
	FindDebitForReservation(ctx context.Context, reservationID uuid.UUID) (*wallet.Entry, error)
	Append(ctx context.Context, e *wallet.Entry) error
}

type OutboxRepository interface {
	Append(ctx context.Context, eventType string, eventData []byte) error
}

type CommandReads interface {
	CourtByID(ctx context.Context, id uuid.UUID) (*CourtSnapshot, error)
	ActiveRateCard(ctx context.Context, courtID uuid.UUID, at time.Time) (*RateCardSnapshot, error)
	TariffGrants(ctx context.Context, userID uuid.UUID) ([]TariffGrantSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	// Sweep candidate selections; all are status-gated so repeated sweeps
	// converge.
	ExpiredPendingIDs(ctx context.Context, now time.Time, limit int32) ([]uuid.UUID, error)
	NoShowCandidateIDs(ctx context.Context, endedBefore time.Time, limit int32) ([]uuid.UUID, error)
	OverrunInProgressIDs(ctx context.Context, now time.Time, limit int32) ([]uuid.UUID, error)
}
