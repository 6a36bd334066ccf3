package readstore

import (
	"context"
	"errors"
	"time"

	"courtside/internal/infra"
	"courtside/internal/infra/db"
	"courtside/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	const q = `
		SELECT r.id, r.court_id, c.name, r.user_id, r.start_time, r.end_time,
		       r.status, r.payment_status, r.payment_method, r.price_cents,
		       r.check_in_time, r.check_out_time, r.expires_at, r.note,
		       r.created_at, r.updated_at
		FROM reservations r
		JOIN courts c ON c.id = r.court_id
		WHERE r.id = $1`

	var v queries.ReservationView
	err := r.db.QueryRow(ctx, q, id).Scan(
		&v.ID, &v.CourtID, &v.CourtName, &v.UserID, &v.StartTime, &v.EndTime,
		&v.Status, &v.PaymentStatus, &v.PaymentMethod, &v.PriceCents,
		&v.CheckInTime, &v.CheckOutTime, &v.ExpiresAt, &v.Note,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation view", err)
	}
	return &v, nil
}

func (r *ReservationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	const q = `
		SELECT r.id, r.court_id, c.name, r.start_time, r.end_time,
		       r.status, r.price_cents, r.created_at
		FROM reservations r
		JOIN courts c ON c.id = r.court_id
		WHERE r.user_id = $1
		ORDER BY r.start_time DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by user", err)
	}
	defer rows.Close()

	return scanListItems(rows)
}

// FindByCourtDay returns the court's reservations whose slot intersects the
// UTC day containing the given instant.
func (r *ReservationReadStore) FindByCourtDay(ctx context.Context, courtID uuid.UUID, day time.Time) ([]*queries.ReservationListItem, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	const q = `
		SELECT r.id, r.court_id, c.name, r.start_time, r.end_time,
		       r.status, r.price_cents, r.created_at
		FROM reservations r
		JOIN courts c ON c.id = r.court_id
		WHERE r.court_id = $1
		  AND r.start_time < $3
		  AND r.end_time > $2
		ORDER BY r.start_time ASC`

	rows, err := r.db.Query(ctx, q, courtID, dayStart, dayEnd)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by court day", err)
	}
	defer rows.Close()

	return scanListItems(rows)
}

func scanListItems(rows pgx.Rows) ([]*queries.ReservationListItem, error) {
	var items []*queries.ReservationListItem
	for rows.Next() {
		var item queries.ReservationListItem
		err := rows.Scan(
			&item.ID, &item.CourtID, &item.CourtName, &item.StartTime, &item.EndTime,
			&item.Status, &item.PriceCents, &item.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation list items", err)
	}
	return items, nil
}
