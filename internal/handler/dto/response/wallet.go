package response

import (
	"time"

	"courtside/internal/usecase/queries"

	"github.com/google/uuid"
)

type WalletResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance int64     `json:"balance"`
}

type LedgerEntryResponse struct {
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

func FromWalletView(v *queries.WalletView) *WalletResponse {
	return &WalletResponse{
		UserID:  v.UserID,
		Balance: v.Balance,
	}
}

func FromLedgerEntryView(v *queries.LedgerEntryView) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:            v.ID,
		UserID:        v.UserID,
		Type:          v.Type,
		Reason:        v.Reason,
		Credits:       v.Credits,
		BalanceAfter:  v.BalanceAfter,
		ReservationID: v.ReservationID,
		Metadata:      v.Metadata,
		CreatedAt:     v.CreatedAt,
	}
}
