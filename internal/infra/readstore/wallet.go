package readstore

import (
	"context"
	"encoding/json"
	"time"

	"courtside/internal/infra"
	"courtside/internal/infra/db"
	"courtside/internal/usecase/queries"

	"github.com/google/uuid"
)

type WalletReadStore struct {
	db db.DBTX
}

func NewWalletReadStore(dbtx db.DBTX) *WalletReadStore {
	return &WalletReadStore{db: dbtx}
}

func (r *WalletReadStore) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
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

func (r *WalletReadStore) FindEntries(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.LedgerEntryView, error) {
	const q = `
		SELECT id, user_id, entry_type, reason, credits, balance_after,
		       reservation_id, metadata, created_at
		FROM wallet_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ledger entries", err)
	}
	defer rows.Close()

	var entries []*queries.LedgerEntryView
	for rows.Next() {
		var (
			v           queries.LedgerEntryView
			metadataRaw []byte
			createdAt   time.Time
		)
		err := rows.Scan(
			&v.ID, &v.UserID, &v.Type, &v.Reason, &v.Credits, &v.BalanceAfter,
			&v.ReservationID, &metadataRaw, &createdAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan ledger entry view", err)
		}
		if len(metadataRaw) > 0 {
			if err := json.Unmarshal(metadataRaw, &v.Metadata); err != nil {
				return nil, infra.WrapRepoErr("failed to decode ledger metadata", err)
			}
		}
		v.CreatedAt = createdAt
		entries = append(entries, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate ledger entries", err)
	}
	return entries, nil
}
