package commands

import (
	"context"
	"log/slog"
	"time"

	"courtside/internal/domain/reservation"
	"courtside/internal/pkg/clock"
	"courtside/internal/pkg/config"
	"courtside/internal/pkg/errs"
	"courtside/internal/usecase/shared"

	"github.com/google/uuid"
)

const sweepBatchSize = 100

// SweeperCommands hosts the background lifecycle transitions. Each pass
// selects candidates outside any transaction, then processes them one
// transaction apiece so a single bad row cannot poison the batch.
type SweeperCommands interface {
	ExpirePending(ctx context.Context) (int, error)
	MarkNoShows(ctx context.Context) (int, error)
	AutoComplete(ctx context.Context) (int, error)
}

type sweeperCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.ReservationConfig
}

func NewSweeperCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.ReservationConfig) SweeperCommands {
	return &sweeperCommandsImpl{uow: uow, clock: clk, cfg: cfg}
}

// ExpirePending cancels pending reservations whose hold lapsed, releasing
// the slot.
func (s *sweeperCommandsImpl) ExpirePending(ctx context.Context) (int, error) {
	now := s.clock.Now()

	ids, err := s.uow.CommandReads().ExpiredPendingIDs(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return s.sweep(ctx, ids, "expire", now, func(res *reservation.Reservation) (string, error) {
		if err := res.Expire(now, reservation.NewNote("hold expired")); err != nil {
			return "", err
		}
		return EventReservationExpired, nil
	})
}

// MarkNoShows flags reservations whose slot ended without a check-in once
// the grace period passes.
func (s *sweeperCommandsImpl) MarkNoShows(ctx context.Context) (int, error) {
	now := s.clock.Now()

	ids, err := s.uow.CommandReads().NoShowCandidateIDs(ctx, now.Add(-s.cfg.NoShowGrace), sweepBatchSize)
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return s.sweep(ctx, ids, "no_show", now, func(res *reservation.Reservation) (string, error) {
		if err := res.MarkNoShow(now, s.cfg.NoShowGrace); err != nil {
			return "", err
		}
		return EventReservationNoShow, nil
	})
}

// AutoComplete closes in-progress sessions that ran past their end time
// without an explicit check-out.
func (s *sweeperCommandsImpl) AutoComplete(ctx context.Context) (int, error) {
	now := s.clock.Now()

	ids, err := s.uow.CommandReads().OverrunInProgressIDs(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return s.sweep(ctx, ids, "auto_complete", now, func(res *reservation.Reservation) (string, error) {
		if err := res.AutoComplete(now); err != nil {
			return "", err
		}
		return EventReservationCompleted, nil
	})
}

// sweep runs one transaction per candidate with the pass's own timestamp,
// so emitted events carry the same instant the candidates were selected at.
// A domain rejection means the row changed between selection and lock; it
// is skipped, not failed.
func (s *sweeperCommandsImpl) sweep(
	ctx context.Context,
	ids []uuid.UUID,
	action string,
	now time.Time,
	transition func(res *reservation.Reservation) (string, error),
) (int, error) {
	swept := 0

	for _, id := range ids {
		applied := false
		err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			applied = false

			res, err := findForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}

			eventType, err := transition(res)
			if err != nil {
				// Raced with a user action; the next pass re-selects.
				return nil
			}

			if err := tx.Reservations().Update(ctx, res); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if err := appendReservationEvent(ctx, tx, eventType, res, now); err != nil {
				return err
			}

			applied = true
			return nil
		})
		if err == nil && applied {
			swept++
		}
		if err != nil {
			slog.Warn("sweep item failed",
				"action", action,
				"reservation_id", id,
				"error", err.Error())
		}
	}

	return swept, nil
}
