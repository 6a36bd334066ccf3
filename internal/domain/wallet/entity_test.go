//go:build unit

package wallet_test

import (
	"testing"
	"time"

	"courtside/internal/domain/wallet"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestNewEntry(t *testing.T) {
	userID := uuid.New()

	t.Run("credit raises the balance", func(t *testing.T) {
		e, err := wallet.NewEntry(userID, wallet.TypeCredit, wallet.ReasonPurchase, 500, 100, nil, nil, nil, entryTime, false)
		require.NoError(t, err)
		assert.Equal(t, int64(600), e.BalanceAfter())
		assert.Equal(t, wallet.TypeCredit, e.Type())
	})

	t.Run("debit lowers the balance", func(t *testing.T) {
		e, err := wallet.NewEntry(userID, wallet.TypeDebit, wallet.ReasonReservationPayment, 300, 1000, nil, nil, nil, entryTime, false)
		require.NoError(t, err)
		assert.Equal(t, int64(700), e.BalanceAfter())
	})

	t.Run("debit to exactly zero is allowed", func(t *testing.T) {
		e, err := wallet.NewEntry(userID, wallet.TypeDebit, wallet.ReasonReservationPayment, 1000, 1000, nil, nil, nil, entryTime, false)
		require.NoError(t, err)
		assert.Equal(t, int64(0), e.BalanceAfter())
	})

	t.Run("overdraw is rejected", func(t *testing.T) {
		_, err := wallet.NewEntry(userID, wallet.TypeDebit, wallet.ReasonReservationPayment, 1001, 1000, nil, nil, nil, entryTime, false)
		assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)
	})

	t.Run("staff override may overdraw", func(t *testing.T) {
		e, err := wallet.NewEntry(userID, wallet.TypeDebit, wallet.ReasonAdjust, 1500, 1000, nil, nil, nil, entryTime, true)
		require.NoError(t, err)
		assert.Equal(t, int64(-500), e.BalanceAfter())
	})

	t.Run("amount must be positive", func(t *testing.T) {
		for _, credits := range []int64{0, -100} {
			_, err := wallet.NewEntry(userID, wallet.TypeCredit, wallet.ReasonPurchase, credits, 0, nil, nil, nil, entryTime, false)
			assert.ErrorIs(t, err, wallet.ErrInvalidAmount)
		}
	})

	t.Run("entry type must be known", func(t *testing.T) {
		_, err := wallet.NewEntry(userID, wallet.EntryType("transfer"), wallet.ReasonAdjust, 100, 0, nil, nil, nil, entryTime, false)
		assert.ErrorIs(t, err, wallet.ErrInvalidEntryType)
	})

	t.Run("carries idempotency key and reservation link", func(t *testing.T) {
		key := "resv:abc:debit"
		resID := uuid.New()
		e, err := wallet.NewEntry(userID, wallet.TypeDebit, wallet.ReasonReservationPayment, 100, 500, &key, &resID,
			wallet.Metadata{"court_id": "c1"}, entryTime, false)
		require.NoError(t, err)
		require.NotNil(t, e.IdempotencyKey())
		assert.Equal(t, key, *e.IdempotencyKey())
		require.NotNil(t, e.ReservationID())
		assert.Equal(t, resID, *e.ReservationID())
		assert.Equal(t, "c1", e.Metadata()["court_id"])
	})
}
