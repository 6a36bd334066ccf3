package commands

import (
	"context"
	"errors"

	"courtside/internal/domain/pricing"
	"courtside/internal/domain/reservation"
	"courtside/internal/domain/user"
	reqdto "courtside/internal/handler/dto/request"
	"courtside/internal/infra"
	"courtside/internal/pkg/clock"
	"courtside/internal/pkg/config"
	"courtside/internal/pkg/errs"
	"courtside/internal/usecase/queries"
	"courtside/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCourtNotFound           = errs.New("court not found")
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrSlotUnavailable         = errs.New("slot unavailable")
	ErrNotOwner                = errs.New("reservation belongs to another user")
	ErrPricingUnavailable      = errs.New("no pricing configured for court")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type ReservationCommands interface {
	Create(ctx context.Context, userID uuid.UUID, req reqdto.CreateReservationRequest) (*queries.ReservationView, error)
	Cancel(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID, req reqdto.CancelReservationRequest) error
	CheckIn(ctx context.Context, id uuid.UUID) error
	CheckOut(ctx context.Context, id uuid.UUID) error
}

type reservationCommandsImpl struct {
	uow                shared.UnitOfWork
	factory            *reservation.Factory
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
	cfg                config.ReservationConfig
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	factory *reservation.Factory,
	reservationQueries queries.ReservationQueries,
	clk clock.Clock,
	cfg config.ReservationConfig,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:                uow,
		factory:            factory,
		reservationQueries: reservationQueries,
		clock:              clk,
		cfg:                cfg,
	}
}

func (c *reservationCommandsImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	req reqdto.CreateReservationRequest,
) (*queries.ReservationView, error) {
	reads := c.uow.CommandReads()

	court, err := reads.CourtByID(ctx, req.CourtID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrCourtNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	slot, err := reservation.NewTimeSlot(req.StartTime, req.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	priceCents, err := c.resolvePrice(ctx, reads, userID, req.CourtID, slot)
	if err != nil {
		return nil, err
	}

	res, err := c.factory.CreatePending(
		reservation.CourtSpec{
			ID:        court.ID,
			Name:      court.Name,
			Sport:     court.Sport,
			OpenHour:  court.OpenHour,
			CloseHour: court.CloseHour,
		},
		userID,
		slot,
		reservation.PaymentMethod(req.PaymentMethod),
		priceCents,
		reservation.NewNote(req.GetNote()),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Reservations().LockCourt(ctx, res.CourtID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		overlap, err := tx.Reservations().HasOverlap(ctx, res.CourtID(), res.Slot())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlap {
			return ErrSlotUnavailable
		}

		if err := tx.Reservations().Create(ctx, res); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, ErrSlotUnavailable)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return appendReservationEvent(ctx, tx, EventReservationCreated, res, c.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	return c.reservationQueries.GetByID(ctx, res.ID())
}

func (c *reservationCommandsImpl) resolvePrice(
	ctx context.Context,
	reads shared.CommandReads,
	userID, courtID uuid.UUID,
	slot reservation.TimeSlot,
) (int64, error) {
	rateSnap, err := reads.ActiveRateCard(ctx, courtID, slot.Start())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return 0, errs.Mark(err, ErrPricingUnavailable)
		}
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	grantSnaps, err := reads.TariffGrants(ctx, userID)
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	rate := &pricing.RateCard{
		ID:              rateSnap.ID,
		CourtID:         rateSnap.CourtID,
		DayRateCents:    rateSnap.DayRateCents,
		NightRateCents:  rateSnap.NightRateCents,
		NightStartsHour: rateSnap.NightStartsHour,
		ValidFrom:       rateSnap.ValidFrom,
		ValidTo:         rateSnap.ValidTo,
	}
	grants := make([]pricing.TariffGrant, 0, len(grantSnaps))
	for _, g := range grantSnaps {
		grants = append(grants, pricing.TariffGrant{
			TariffID:        g.TariffID,
			Segment:         g.Segment,
			DiscountPercent: g.DiscountPercent,
			ValidFrom:       g.ValidFrom,
			ValidTo:         g.ValidTo,
			Enrollment:      pricing.EnrollmentStatus(g.Enrollment),
		})
	}

	priceCents, err := pricing.Resolve(rate, grants, slot)
	if err != nil {
		return 0, errs.Mark(err, ErrPricingUnavailable)
	}
	return priceCents, nil
}

func (c *reservationCommandsImpl) Cancel(
	ctx context.Context,
	actorID uuid.UUID,
	actorRole user.Role,
	id uuid.UUID,
	req reqdto.CancelReservationRequest,
) error {
	now := c.clock.Now()

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if !res.IsOwnedBy(actorID) && !actorRole.AtLeast(user.RoleStaff) {
			return ErrNotOwner
		}

		refundCredits := res.PaymentStatus() == reservation.PaymentPaid &&
			res.PaymentMethod() == reservation.MethodCredits

		if err := res.Cancel(now, reservation.NewNote(req.GetNote())); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		if refundCredits {
			if err := refundToWallet(ctx, tx, res, now, nil); err != nil {
				return err
			}
			if err := res.MarkRefunded(now); err != nil && !errors.Is(err, reservation.ErrAlreadyRefunded) {
				return errs.Mark(err, ErrDomainValidation)
			}
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return appendReservationEvent(ctx, tx, EventReservationCancelled, res, now)
	})
}

func (c *reservationCommandsImpl) CheckIn(ctx context.Context, id uuid.UUID) error {
	now := c.clock.Now()

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := res.CheckIn(now, c.cfg.CheckInTolerance); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return appendReservationEvent(ctx, tx, EventReservationCheckedIn, res, now)
	})
}

func (c *reservationCommandsImpl) CheckOut(ctx context.Context, id uuid.UUID) error {
	now := c.clock.Now()

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := res.CheckOut(now); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return appendReservationEvent(ctx, tx, EventReservationCompleted, res, now)
	})
}

func findForUpdate(ctx context.Context, tx shared.Tx, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := tx.Reservations().FindByIDForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return res, nil
}
