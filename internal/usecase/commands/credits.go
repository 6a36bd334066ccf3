package commands

import (
	"context"
	"encoding/json"
	"errors"

	"courtside/internal/domain/wallet"
	reqdto "courtside/internal/handler/dto/request"
	"courtside/internal/infra"
	"courtside/internal/pkg/clock"
	"courtside/internal/pkg/errs"
	"courtside/internal/usecase/queries"
	"courtside/internal/usecase/shared"
)

var ErrInvalidAdjustment = errs.New("invalid credit adjustment")

type CreditCommands interface {
	Adjust(ctx context.Context, req reqdto.AdjustCreditsRequest) (*queries.LedgerEntryView, error)
}

type creditCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCreditCommands(uow shared.UnitOfWork, clk clock.Clock) CreditCommands {
	return &creditCommandsImpl{uow: uow, clock: clk}
}

// Adjust applies a staff credit or debit to a member's wallet. An
// idempotency key, when supplied, makes a retried adjustment return the
// stored entry instead of writing a second one.
func (c *creditCommandsImpl) Adjust(ctx context.Context, req reqdto.AdjustCreditsRequest) (*queries.LedgerEntryView, error) {
	now := c.clock.Now()

	reason := wallet.Reason(req.Reason)
	if req.Reason == "" {
		reason = wallet.ReasonAdjust
	}

	var view *queries.LedgerEntryView
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Ledger().LockWallet(ctx, req.UserID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if req.IdempotencyKey != nil {
			existing, err := tx.Ledger().FindByIdempotencyKey(ctx, *req.IdempotencyKey)
			if err == nil {
				view = entryToView(existing)
				return nil
			}
			if !infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		balance, err := tx.Ledger().Balance(ctx, req.UserID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		entry, err := wallet.NewEntry(
			req.UserID, wallet.EntryType(req.EntryType), reason,
			req.Credits, balance,
			req.IdempotencyKey, nil,
			wallet.Metadata(req.Metadata),
			now, req.AllowNegative,
		)
		if err != nil {
			if errors.Is(err, wallet.ErrInsufficientBalance) {
				return errs.Mark(err, ErrInsufficientCredits)
			}
			return errs.Mark(err, ErrInvalidAdjustment)
		}

		if err := tx.Ledger().Append(ctx, entry); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) && req.IdempotencyKey != nil {
				stored, ferr := tx.Ledger().FindByIdempotencyKey(ctx, *req.IdempotencyKey)
				if ferr != nil {
					return errs.Mark(ferr, ErrDatabaseOperationFailed)
				}
				view = entryToView(stored)
				return nil
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		payload, err := json.Marshal(walletEventPayload{
			EntryID:      entry.ID(),
			UserID:       entry.UserID(),
			EntryType:    entry.Type().String(),
			Credits:      entry.Credits(),
			BalanceAfter: entry.BalanceAfter(),
			OccurredAt:   now,
		})
		if err != nil {
			return errs.Wrap(err, "failed to encode wallet event")
		}
		if err := tx.Outbox().Append(ctx, EventWalletAdjusted, payload); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		view = entryToView(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func entryToView(e *wallet.Entry) *queries.LedgerEntryView {
	return &queries.LedgerEntryView{
		ID:            e.ID(),
		UserID:        e.UserID(),
		Type:          e.Type().String(),
		Reason:        e.Reason().String(),
		Credits:       e.Credits(),
		BalanceAfter:  e.BalanceAfter(),
		ReservationID: e.ReservationID(),
		Metadata:      e.Metadata(),
		CreatedAt:     e.CreatedAt(),
	}
}
