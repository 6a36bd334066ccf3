package repository

import (
	"context"
	"errors"
	"time"

	"courtside/internal/domain/reservation"
	"courtside/internal/infra"
	"courtside/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

// LockCourt serializes concurrent bookings per court for the rest of the
// transaction. The overlap check-then-insert is only safe behind this lock.
func (r *ReservationRepository) LockCourt(ctx context.Context, courtID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, "court:"+courtID.String())
	if err != nil {
		return infra.WrapRepoErr("failed to lock court", err)
	}
	return nil
}

func (r *ReservationRepository) HasOverlap(ctx context.Context, courtID uuid.UUID, slot reservation.TimeSlot) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE court_id = $1
			  AND status IN ('pending', 'paid', 'in_progress')
			  AND start_time < $3
			  AND end_time > $2
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, courtID, slot.Start(), slot.End()).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check slot overlap", err)
	}
	return exists, nil
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	const q = `
		INSERT INTO reservations (
			id, court_id, user_id, start_time, end_time,
			status, payment_status, payment_method, price_cents,
			check_in_time, check_out_time, expires_at, note,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, q,
		res.ID(), res.CourtID(), res.UserID(), res.Slot().Start(), res.Slot().End(),
		res.Status().String(), res.PaymentStatus().String(), res.PaymentMethod().String(), res.Price().Cents(),
		res.CheckInTime(), res.CheckOutTime(), res.ExpiresAt(), noteToPtr(res.Note()),
		res.CreatedAt(), res.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("reservation conflict", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	const q = `
		SELECT id, court_id, user_id, start_time, end_time,
		       status, payment_status, payment_method, price_cents,
		       check_in_time, check_out_time, expires_at, note,
		       created_at, updated_at
		FROM reservations
		WHERE id = $1
		FOR UPDATE`

	return r.scanReservation(r.db.QueryRow(ctx, q, id))
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	const q = `
		UPDATE reservations
		SET status = $2,
		    payment_status = $3,
		    check_in_time = $4,
		    check_out_time = $5,
		    expires_at = $6,
		    note = $7,
		    updated_at = $8
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q,
		res.ID(), res.Status().String(), res.PaymentStatus().String(),
		res.CheckInTime(), res.CheckOutTime(), res.ExpiresAt(), noteToPtr(res.Note()),
		res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		id, courtID, userID  uuid.UUID
		startTime, endTime   time.Time
		status               string
		paymentStatus        string
		paymentMethod        string
		priceCents           int64
		checkIn, checkOut    *time.Time
		expiresAt            *time.Time
		note                 *string
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&id, &courtID, &userID, &startTime, &endTime,
		&status, &paymentStatus, &paymentMethod, &priceCents,
		&checkIn, &checkOut, &expiresAt, &note,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan reservation", err)
	}

	slot, err := reservation.NewTimeSlot(startTime, endTime)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid slot", err)
	}
	price, err := reservation.NewMoney(priceCents)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid price", err)
	}

	noteVal := ""
	if note != nil {
		noteVal = *note
	}

	return reservation.Reconstruct(
		id, courtID, userID, slot,
		reservation.Status(status),
		reservation.PaymentStatus(paymentStatus),
		reservation.PaymentMethod(paymentMethod),
		price,
		checkIn, checkOut, expiresAt,
		reservation.NewNote(noteVal),
		createdAt, updatedAt,
	), nil
}

func noteToPtr(n reservation.Note) *string {
	if n.IsEmpty() {
		return nil
	}
	s := n.String()
	return &s
}
