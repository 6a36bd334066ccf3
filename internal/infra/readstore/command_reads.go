package readstore

import (
	"context"
	"errors"
	"time"

	"courtside/internal/infra"
	"courtside/internal/infra/db"
	"courtside/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CommandReads serves the command side's pre-transaction lookups and the
// sweeper's candidate selection.
type CommandReads struct {
	db db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{db: dbtx}
}

func (r *CommandReads) CourtByID(ctx context.Context, id uuid.UUID) (*shared.CourtSnapshot, error) {
	const q = `
		SELECT id, name, sport, open_hour, close_hour
		FROM courts
		WHERE id = $1`

	var snap shared.CourtSnapshot
	err := r.db.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.Name, &snap.Sport, &snap.OpenHour, &snap.CloseHour)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("court not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find court", err)
	}
	return &snap, nil
}

func (r *CommandReads) ActiveRateCard(ctx context.Context, courtID uuid.UUID, at time.Time) (*shared.RateCardSnapshot, error) {
	const q = `
		SELECT id, court_id, day_rate_cents, night_rate_cents, night_starts_hour, valid_from, valid_to
		FROM court_rates
		WHERE court_id = $1
		  AND valid_from <= $2
		  AND (valid_to IS NULL OR valid_to >= $2)
		ORDER BY valid_from DESC
		LIMIT 1`

	var snap shared.RateCardSnapshot
	err := r.db.QueryRow(ctx, q, courtID, at).Scan(
		&snap.ID, &snap.CourtID, &snap.DayRateCents, &snap.NightRateCents,
		&snap.NightStartsHour, &snap.ValidFrom, &snap.ValidTo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("no rate card for court", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find rate card", err)
	}
	return &snap, nil
}

func (r *CommandReads) TariffGrants(ctx context.Context, userID uuid.UUID) ([]shared.TariffGrantSnapshot, error) {
	const q = `
		SELECT t.id, t.segment, t.discount_percent, t.valid_from, t.valid_to, e.status
		FROM tariff_enrollments e
		JOIN tariffs t ON t.id = e.tariff_id
		WHERE e.user_id = $1`

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tariff grants", err)
	}
	defer rows.Close()

	var grants []shared.TariffGrantSnapshot
	for rows.Next() {
		var g shared.TariffGrantSnapshot
		if err := rows.Scan(&g.TariffID, &g.Segment, &g.DiscountPercent, &g.ValidFrom, &g.ValidTo, &g.Enrollment); err != nil {
			return nil, infra.WrapRepoErr("failed to scan tariff grant", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tariff grants", err)
	}
	return grants, nil
}

func (r *CommandReads) ReservationByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	const q = `
		SELECT id, court_id, user_id, status, end_time
		FROM reservations
		WHERE id = $1`

	var snap shared.ReservationSnapshot
	err := r.db.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.CourtID, &snap.UserID, &snap.Status, &snap.EndTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return &snap, nil
}

func (r *CommandReads) ExpiredPendingIDs(ctx context.Context, now time.Time, limit int32) ([]uuid.UUID, error) {
	const q = `
		SELECT id FROM reservations
		WHERE status = 'pending' AND expires_at IS NOT NULL AND expires_at < $1
		ORDER BY expires_at ASC
		LIMIT $2`

	return r.listIDs(ctx, q, now, limit)
}

func (r *CommandReads) NoShowCandidateIDs(ctx context.Context, endedBefore time.Time, limit int32) ([]uuid.UUID, error) {
	const q = `
		SELECT id FROM reservations
		WHERE status IN ('pending', 'paid')
		  AND check_in_time IS NULL
		  AND end_time < $1
		ORDER BY end_time ASC
		LIMIT $2`

	return r.listIDs(ctx, q, endedBefore, limit)
}

func (r *CommandReads) OverrunInProgressIDs(ctx context.Context, now time.Time, limit int32) ([]uuid.UUID, error) {
	const q = `
		SELECT id FROM reservations
		WHERE status = 'in_progress' AND end_time < $1
		ORDER BY end_time ASC
		LIMIT $2`

	return r.listIDs(ctx, q, now, limit)
}

func (r *CommandReads) listIDs(ctx context.Context, q string, cutoff time.Time, limit int32) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, q, cutoff, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservation ids", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation ids", err)
	}
	return ids, nil
}
