package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount       = errors.New("credit amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidEntryType    = errors.New("invalid ledger entry type")
)

// Entry is one immutable wallet ledger line. Corrections are new entries,
// never edits; balanceAfter snapshots the balance as of this entry.
type Entry struct {
	id             uuid.UUID
	userID         uuid.UUID
	entryType      EntryType
	reason         Reason
	credits        int64
	balanceAfter   int64
	idempotencyKey *string
	reservationID  *uuid.UUID
	metadata       Metadata
	createdAt      time.Time
}

// NewEntry applies a mutation to priorBalance and yields the entry to
// persist. A debit that would drive the balance negative is rejected
// unless allowNegative is set (staff override).
func NewEntry(
	userID uuid.UUID,
	entryType EntryType,
	reason Reason,
	credits int64,
	priorBalance int64,
	idempotencyKey *string,
	reservationID *uuid.UUID,
	metadata Metadata,
	now time.Time,
	allowNegative bool,
) (*Entry, error) {
	if credits <= 0 {
		return nil, ErrInvalidAmount
	}
	if !entryType.IsValid() {
		return nil, ErrInvalidEntryType
	}

	balanceAfter := priorBalance
	switch entryType {
	case TypeCredit:
		balanceAfter += credits
	case TypeDebit:
		balanceAfter -= credits
		if balanceAfter < 0 && !allowNegative {
			return nil, ErrInsufficientBalance
		}
	}

	return &Entry{
		id:             uuid.New(),
		userID:         userID,
		entryType:      entryType,
		reason:         reason,
		credits:        credits,
		balanceAfter:   balanceAfter,
		idempotencyKey: idempotencyKey,
		reservationID:  reservationID,
		metadata:       metadata,
		createdAt:      now,
	}, nil
}

func ReconstructEntry(
	id, userID uuid.UUID,
	entryType EntryType,
	reason Reason,
	credits, balanceAfter int64,
	idempotencyKey *string,
	reservationID *uuid.UUID,
	metadata Metadata,
	createdAt time.Time,
) *Entry {
	return &Entry{
		id:             id,
		userID:         userID,
		entryType:      entryType,
		reason:         reason,
		credits:        credits,
		balanceAfter:   balanceAfter,
		idempotencyKey: idempotencyKey,
		reservationID:  reservationID,
		metadata:       metadata,
		createdAt:      createdAt,
	}
}

func (e *Entry) ID() uuid.UUID              { return e.id }
func (e *Entry) UserID() uuid.UUID          { return e.userID }
func (e *Entry) Type() EntryType            { return e.entryType }
func (e *Entry) Reason() Reason             { return e.reason }
func (e *Entry) Credits() int64             { return e.credits }
func (e *Entry) BalanceAfter() int64        { return e.balanceAfter }
func (e *Entry) IdempotencyKey() *string    { return e.idempotencyKey }
func (e *Entry) ReservationID() *uuid.UUID  { return e.reservationID }
func (e *Entry) Metadata() Metadata         { return e.metadata }
func (e *Entry) CreatedAt() time.Time       { return e.createdAt }
