package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"courtside/internal/domain/wallet"
	"courtside/internal/infra"
	"courtside/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type LedgerRepository struct {
	db db.DBTX
}

func NewLedgerRepository(dbtx db.DBTX) *LedgerRepository {
	return &LedgerRepository{db: dbtx}
}

// LockWallet serializes the balance read-then-append per user. Without it,
// two concurrent debits could both observe the same prior balance.
func (r *LedgerRepository) LockWallet(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, "wallet:"+userID.String())
	if err != nil {
		return infra.WrapRepoErr("failed to lock wallet", err)
	}
	return nil
}

// Balance is the balance_after of the newest entry; an empty ledger is a
// zero balance.
func (r *LedgerRepository) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	const q = `
		SELECT COALESCE(
			(SELECT balance_after FROM wallet_ledger
			 WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT 1),
			0)`

	var balance int64
	if err := r.db.QueryRow(ctx, q, userID).Scan(&balance); err != nil {
		return 0, infra.WrapRepoErr("failed to read wallet balance", err)
	}
	return balance, nil
}

func (r *LedgerRepository) FindByIdempotencyKey(ctx context.Context, key string) (*wallet.Entry, error) {
	const q = `
		SELECT id, user_id, entry_type, reason, credits, balance_after,
		       idempotency_key, reservation_id, metadata, created_at
		FROM wallet_ledger
		WHERE idempotency_key = $1`

	return r.scanEntry(r.db.QueryRow(ctx, q, key))
}

func (r *LedgerRepository) FindDebitForReservation(ctx context.Context, reservationID uuid.UUID) (*wallet.Entry, error) {
	const q = `
		SELECT id, user_id, entry_type, reason, credits, balance_after,
		       idempotency_key, reservation_id, metadata, created_at
		FROM wallet_ledger
		WHERE reservation_id = $1 AND entry_type = 'debit'
		ORDER BY created_at DESC
		LIMIT 1`

	return r.scanEntry(r.db.QueryRow(ctx, q, reservationID))
}

func (r *LedgerRepository) Append(ctx context.Context, e *wallet.Entry) error {
	metadata, err := json.Marshal(e.Metadata())
	if err != nil {
		return infra.WrapRepoErr("failed to encode ledger metadata", err)
	}

	const q = `
		INSERT INTO wallet_ledger (
			id, user_id, entry_type, reason, credits, balance_after,
			idempotency_key, reservation_id, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.Exec(ctx, q,
		e.ID(), e.UserID(), e.Type().String(), e.Reason().String(), e.Credits(), e.BalanceAfter(),
		e.IdempotencyKey(), e.ReservationID(), metadata, e.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("duplicate ledger idempotency key", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to append ledger entry", err)
	}
	return nil
}

func (r *LedgerRepository) scanEntry(row pgx.Row) (*wallet.Entry, error) {
	var (
		id, userID     uuid.UUID
		entryType      string
		reason         string
		credits        int64
		balanceAfter   int64
		idempotencyKey *string
		reservationID  *uuid.UUID
		metadataRaw    []byte
		createdAt      time.Time
	)

	err := row.Scan(
		&id, &userID, &entryType, &reason, &credits, &balanceAfter,
		&idempotencyKey, &reservationID, &metadataRaw, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("ledger entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan ledger entry", err)
	}

	var metadata wallet.Metadata
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &metadata); err != nil {
			return nil, infra.WrapRepoErr("failed to decode ledger metadata", err)
		}
	}

	return wallet.ReconstructEntry(
		id, userID,
		wallet.EntryType(entryType), wallet.Reason(reason),
		credits, balanceAfter,
		idempotencyKey, reservationID, metadata, createdAt,
	), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation
}
