package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"courtside/internal/domain/reservation"
	"courtside/internal/domain/wallet"
	"courtside/internal/infra"
	"courtside/internal/infra/gateway"
	"courtside/internal/pkg/clock"
	"courtside/internal/pkg/errs"
	"courtside/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInsufficientCredits     = errs.New("insufficient credits")
	ErrReservationExpired      = errs.New("reservation hold has expired")
	ErrAlreadyPaid             = errs.New("reservation is already paid")
	ErrNotRefundable           = errs.New("payment is not refundable")
	ErrInvalidWebhookSignature = errs.New("invalid webhook signature")
)

// WebhookVerifier authenticates a raw gateway delivery and maps it to a
// provider-neutral event.
type WebhookVerifier interface {
	Verify(payload []byte, signatureHeader string) (*gateway.PaymentEvent, error)
}

type PaymentCommands interface {
	PayWithCredits(ctx context.Context, userID, reservationID uuid.UUID) error
	HandleGatewayWebhook(ctx context.Context, payload []byte, signatureHeader string) error
	Refund(ctx context.Context, reservationID, actorID uuid.UUID, reason string) error
}

type paymentCommandsImpl struct {
	uow      shared.UnitOfWork
	verifier WebhookVerifier
	clock    clock.Clock
}

func NewPaymentCommands(uow shared.UnitOfWork, verifier WebhookVerifier, clk clock.Clock) PaymentCommands {
	return &paymentCommandsImpl{
		uow:      uow,
		verifier: verifier,
		clock:    clk,
	}
}

// PayWithCredits settles a pending reservation from the member's wallet.
// The ledger debit and the status transition commit together; a retried
// request replays the stored debit instead of charging twice.
func (c *paymentCommandsImpl) PayWithCredits(ctx context.Context, userID, reservationID uuid.UUID) error {
	now := c.clock.Now()

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := findForUpdate(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		if !res.IsOwnedBy(userID) {
			return ErrNotOwner
		}

		if err := res.MarkPaid(now); err != nil {
			if errors.Is(err, reservation.ErrAlreadyPaid) {
				// Retried request; the earlier attempt committed.
				return nil
			}
			return markPaidErr(res, err)
		}

		if err := tx.Ledger().LockWallet(ctx, userID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		balance, err := tx.Ledger().Balance(ctx, userID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		key := debitKey(reservationID)
		resID := reservationID
		entry, err := wallet.NewEntry(
			userID, wallet.TypeDebit, wallet.ReasonReservationPayment,
			res.Price().Cents(), balance,
			&key, &resID,
			wallet.Metadata{"court_id": res.CourtID().String()},
			now, false,
		)
		if err != nil {
			if errors.Is(err, wallet.ErrInsufficientBalance) {
				return errs.Mark(err, ErrInsufficientCredits)
			}
			return errs.Mark(err, ErrDomainValidation)
		}

		if err := tx.Ledger().Append(ctx, entry); err != nil {
			if !infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			// Debit already recorded by a previous attempt; finish the
			// transition without charging again.
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return appendReservationEvent(ctx, tx, EventReservationPaid, res, now)
	})
}

// HandleGatewayWebhook confirms or ignores an externally settled payment.
// Deliveries with bad signatures are rejected before any state is touched.
func (c *paymentCommandsImpl) HandleGatewayWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := c.verifier.Verify(payload, signatureHeader)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSignature) {
			return errs.Mark(err, ErrInvalidWebhookSignature)
		}
		if errors.Is(err, gateway.ErrUnhandledEvent) {
			// Unknown event types are acknowledged, not failed, so the
			// provider stops redelivering them.
			slog.Info("ignoring gateway event", "error", err.Error())
			return nil
		}
		return err
	}

	now := c.clock.Now()

	if event.Outcome == gateway.OutcomeCancelled {
		return c.cancelFromGateway(ctx, event.ReservationID, now)
	}

	if event.Outcome != gateway.OutcomeSucceeded {
		// A failed gateway attempt keeps the hold; the member can retry
		// until it expires.
		slog.Info("gateway payment did not succeed",
			"reservation_id", event.ReservationID,
			"outcome", string(event.Outcome))
		return nil
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := findForUpdate(ctx, tx, event.ReservationID)
		if err != nil {
			return err
		}

		if err := res.MarkPaid(now); err != nil {
			if errors.Is(err, reservation.ErrAlreadyPaid) {
				// Redelivered webhook; nothing to do.
				return nil
			}
			return markPaidErr(res, err)
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return appendReservationEvent(ctx, tx, EventReservationPaid, res, now)
	})
}

// markPaidErr translates a MarkPaid rejection. A hold the sweeper already
// released presents as an expired reservation, not a generic state error.
func markPaidErr(res *reservation.Reservation, err error) error {
	switch {
	case errors.Is(err, reservation.ErrExpired):
		return errs.Mark(err, ErrReservationExpired)
	case errors.Is(err, reservation.ErrTerminalState) &&
		res.Status() == reservation.StatusCancelled &&
		res.PaymentStatus() == reservation.PaymentPending:
		return errs.Mark(err, ErrReservationExpired)
	default:
		return errs.Mark(err, ErrDomainValidation)
	}
}

// cancelFromGateway releases the slot when the member abandoned the
// gateway checkout. Terminal reservations are left as they are.
func (c *paymentCommandsImpl) cancelFromGateway(ctx context.Context, reservationID uuid.UUID, now time.Time) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := findForUpdate(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		if res.Status().IsTerminal() {
			return nil
		}

		if err := res.Cancel(now, reservation.NewNote("payment cancelled by gateway")); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return appendReservationEvent(ctx, tx, EventReservationCancelled, res, now)
	})
}

// Refund reverses a settled payment. Credits go straight back to the
// wallet; other methods only flip the payment status, the money moves
// through the provider's own channel.
func (c *paymentCommandsImpl) Refund(ctx context.Context, reservationID, actorID uuid.UUID, reason string) error {
	now := c.clock.Now()

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := findForUpdate(ctx, tx, reservationID)
		if err != nil {
			return err
		}

		if err := res.MarkRefunded(now); err != nil {
			switch {
			case errors.Is(err, reservation.ErrAlreadyRefunded):
				return nil
			case errors.Is(err, reservation.ErrNotRefundable):
				return errs.Mark(err, ErrNotRefundable)
			default:
				return errs.Mark(err, ErrDomainValidation)
			}
		}

		if res.PaymentMethod() == reservation.MethodCredits {
			extra := wallet.Metadata{"actor_id": actorID.String()}
			if reason != "" {
				extra["reason"] = reason
			}
			if err := refundToWallet(ctx, tx, res, now, extra); err != nil {
				return err
			}
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return appendReservationEvent(ctx, tx, EventPaymentRefunded, res, now)
	})
}

// refundToWallet credits the original debit back. The refund idempotency
// key makes cancel-then-refund (or a retried refund) a single credit.
func refundToWallet(ctx context.Context, tx shared.Tx, res *reservation.Reservation, now time.Time, extra wallet.Metadata) error {
	userID := res.UserID()

	if err := tx.Ledger().LockWallet(ctx, userID); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	amount := res.Price().Cents()
	debit, err := tx.Ledger().FindDebitForReservation(ctx, res.ID())
	if err == nil {
		amount = debit.Credits()
	} else if !infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	balance, err := tx.Ledger().Balance(ctx, userID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	metadata := wallet.Metadata{"court_id": res.CourtID().String()}
	for k, v := range extra {
		metadata[k] = v
	}

	key := refundKey(res.ID())
	resID := res.ID()
	entry, err := wallet.NewEntry(
		userID, wallet.TypeCredit, wallet.ReasonRefund,
		amount, balance,
		&key, &resID,
		metadata,
		now, false,
	)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	if err := tx.Ledger().Append(ctx, entry); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			// Refund already recorded.
			return nil
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func debitKey(reservationID uuid.UUID) string {
	return "resv:" + reservationID.String() + ":debit"
}

func refundKey(reservationID uuid.UUID) string {
	return "resv:" + reservationID.String() + ":refund"
}
