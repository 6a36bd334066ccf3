package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeSlot  = errors.New("invalid time slot")
	ErrOutsideHours     = errors.New("slot outside operating hours")
	ErrTerminalState    = errors.New("reservation is in a terminal state")
	ErrNotPending       = errors.New("reservation is not pending")
	ErrNotPaid          = errors.New("reservation is not paid")
	ErrNotInProgress    = errors.New("reservation is not in progress")
	ErrAlreadyPaid      = errors.New("reservation is already paid")
	ErrAlreadyStarted   = errors.New("reservation already checked in")
	ErrAlreadyFinished  = errors.New("reservation already finished")
	ErrOutsideWindow    = errors.New("outside check-in window")
	ErrExpired          = errors.New("reservation hold has expired")
	ErrNotRefundable    = errors.New("reservation payment is not refundable")
	ErrAlreadyRefunded  = errors.New("reservation payment already refunded")
	ErrInvalidStatus    = errors.New("invalid reservation status")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrNoShowNotElapsed = errors.New("no-show grace period has not elapsed")
)

type Reservation struct {
	id            uuid.UUID
	courtID       uuid.UUID
	userID        uuid.UUID
	slot          TimeSlot
	status        Status
	paymentStatus PaymentStatus
	paymentMethod PaymentMethod
	price         Money
	checkInTime   *time.Time
	checkOutTime  *time.Time
	expiresAt     *time.Time
	note          Note
	createdAt     time.Time
	updatedAt     time.Time
}

// NewPending creates a freshly held reservation. The hold deadline depends
// on the payment method: async-settlement methods get the longer grace.
func NewPending(
	courtID, userID uuid.UUID,
	slot TimeSlot,
	method PaymentMethod,
	price Money,
	note Note,
	now time.Time,
	holdWindow, asyncGrace time.Duration,
) (*Reservation, error) {
	if !method.IsValid() {
		return nil, errors.New("invalid payment method")
	}

	hold := holdWindow
	if method.SettlesAsync() {
		hold = asyncGrace
	}
	expiresAt := now.Add(hold)

	return &Reservation{
		id:            uuid.New(),
		courtID:       courtID,
		userID:        userID,
		slot:          slot,
		status:        StatusPending,
		paymentStatus: PaymentPending,
		paymentMethod: method,
		price:         price,
		expiresAt:     &expiresAt,
		note:          note,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func Reconstruct(
	id, courtID, userID uuid.UUID,
	slot TimeSlot,
	status Status,
	paymentStatus PaymentStatus,
	paymentMethod PaymentMethod,
	price Money,
	checkInTime, checkOutTime, expiresAt *time.Time,
	note Note,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:            id,
		courtID:       courtID,
		userID:        userID,
		slot:          slot,
		status:        status,
		paymentStatus: paymentStatus,
		paymentMethod: paymentMethod,
		price:         price,
		checkInTime:   checkInTime,
		checkOutTime:  checkOutTime,
		expiresAt:     expiresAt,
		note:          note,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// MarkPaid transitions pending → paid. A hold that already lapsed is
// rejected: the slot may have been re-released by the sweeper.
func (r *Reservation) MarkPaid(now time.Time) error {
	if r.status.IsTerminal() {
		return ErrTerminalState
	}
	if r.status != StatusPending {
		if r.paymentStatus == PaymentPaid {
			return ErrAlreadyPaid
		}
		return ErrNotPending
	}
	if r.expiresAt != nil && now.After(*r.expiresAt) {
		return ErrExpired
	}

	r.status = StatusPaid
	r.paymentStatus = PaymentPaid
	r.expiresAt = nil
	r.updatedAt = now
	return nil
}

// CheckIn transitions paid → in_progress within [start−tolerance, end].
func (r *Reservation) CheckIn(now time.Time, tolerance time.Duration) error {
	switch r.status {
	case StatusInProgress:
		return ErrAlreadyStarted
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return ErrAlreadyFinished
	case StatusPending:
		return ErrNotPaid
	case StatusPaid:
	default:
		return ErrInvalidStatus
	}

	if now.Before(r.slot.Start().Add(-tolerance)) || now.After(r.slot.End()) {
		return ErrOutsideWindow
	}

	t := now
	r.status = StatusInProgress
	r.checkInTime = &t
	r.updatedAt = now
	return nil
}

func (r *Reservation) CheckOut(now time.Time) error {
	if r.status != StatusInProgress {
		return ErrNotInProgress
	}

	t := now
	r.status = StatusCompleted
	r.checkOutTime = &t
	r.updatedAt = now
	return nil
}

func (r *Reservation) Cancel(now time.Time, note Note) error {
	if r.status.IsTerminal() {
		return ErrTerminalState
	}

	r.status = StatusCancelled
	r.expiresAt = nil
	if !note.IsEmpty() {
		r.note = note
	}
	r.updatedAt = now
	return nil
}

// Expire is the sweeper's pending-hold cancellation.
func (r *Reservation) Expire(now time.Time, note Note) error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	if r.expiresAt == nil || !now.After(*r.expiresAt) {
		return ErrNotPending
	}
	return r.Cancel(now, note)
}

// MarkNoShow applies after the grace period past end time without check-in.
func (r *Reservation) MarkNoShow(now time.Time, grace time.Duration) error {
	if r.status != StatusPending && r.status != StatusPaid {
		return ErrInvalidStatus
	}
	if r.checkInTime != nil {
		return ErrAlreadyStarted
	}
	if !now.After(r.slot.End().Add(grace)) {
		return ErrNoShowNotElapsed
	}

	r.status = StatusNoShow
	r.expiresAt = nil
	r.updatedAt = now
	return nil
}

// AutoComplete closes sessions the user never checked out of.
func (r *Reservation) AutoComplete(now time.Time) error {
	if r.status != StatusInProgress {
		return ErrNotInProgress
	}
	if !now.After(r.slot.End()) {
		return ErrNotInProgress
	}
	return r.CheckOut(now)
}

func (r *Reservation) MarkRefunded(now time.Time) error {
	if r.paymentStatus == PaymentRefunded {
		return ErrAlreadyRefunded
	}
	if r.paymentStatus != PaymentPaid {
		return ErrNotRefundable
	}

	r.paymentStatus = PaymentRefunded
	r.updatedAt = now
	return nil
}

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

func (r *Reservation) HoldExpired(now time.Time) bool {
	return r.status == StatusPending && r.expiresAt != nil && now.After(*r.expiresAt)
}

func (r *Reservation) ID() uuid.UUID                { return r.id }
func (r *Reservation) CourtID() uuid.UUID           { return r.courtID }
func (r *Reservation) UserID() uuid.UUID            { return r.userID }
func (r *Reservation) Slot() TimeSlot               { return r.slot }
func (r *Reservation) Status() Status               { return r.status }
func (r *Reservation) PaymentStatus() PaymentStatus { return r.paymentStatus }
func (r *Reservation) PaymentMethod() PaymentMethod { return r.paymentMethod }
func (r *Reservation) Price() Money                 { return r.price }
func (r *Reservation) CheckInTime() *time.Time      { return r.checkInTime }
func (r *Reservation) CheckOutTime() *time.Time     { return r.checkOutTime }
func (r *Reservation) ExpiresAt() *time.Time        { return r.expiresAt }
func (r *Reservation) Note() Note                   { return r.note }
func (r *Reservation) CreatedAt() time.Time         { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time         { return r.updatedAt }
