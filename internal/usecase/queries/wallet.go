package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LedgerEntryView struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	Type          string            `json:"type"`
	Reason        string            `json:"reason"`
	Credits       int64             `json:"credits"`
	BalanceAfter  int64             `json:"balance_after"`
	ReservationID *uuid.UUID        `json:"reservation_id,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

type WalletView struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance int64     `json:"balance"`
}

type WalletViewRepo interface {
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	FindEntries(ctx context.Context, userID uuid.UUID, limit int32) ([]*LedgerEntryView, error)
}

type WalletQueries interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error)
	ListEntries(ctx context.Context, userID uuid.UUID, limit int) ([]*LedgerEntryView, error)
}

type walletQueriesImpl struct {
	repo WalletViewRepo
}

func NewWalletQueries(repo WalletViewRepo) WalletQueries {
	return &walletQueriesImpl{repo: repo}
}

func (q *walletQueriesImpl) GetWallet(ctx context.Context, userID uuid.UUID) (*WalletView, error) {
	balance, err := q.repo.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WalletView{UserID: userID, Balance: balance}, nil
}

func (q *walletQueriesImpl) ListEntries(ctx context.Context, userID uuid.UUID, limit int) ([]*LedgerEntryView, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return q.repo.FindEntries(ctx, userID, int32(limit))
}
