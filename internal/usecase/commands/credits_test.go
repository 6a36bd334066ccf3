//go:build unit

package commands_test

import (
	"context"
	"testing"

	reqdto "courtside/internal/handler/dto/request"
	"courtside/internal/usecase/commands"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustCredits(t *testing.T) {
	ctx := context.Background()

	t.Run("credit raises the balance", func(t *testing.T) {
		f := newFixture()
		view, err := commands.NewCreditCommands(f.uow, f.clock).Adjust(ctx, reqdto.AdjustCreditsRequest{
			UserID:    f.userID,
			EntryType: "credit",
			Credits:   1000,
			Reason:    "purchase",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1000), view.BalanceAfter)
		assert.Equal(t, "credit", view.Type)
		assert.Equal(t, []string{commands.EventWalletAdjusted}, f.uow.eventTypes())
	})

	t.Run("debit beyond the balance is rejected", func(t *testing.T) {
		f := newFixture()
		f.seedBalance(t, 300)
		_, err := commands.NewCreditCommands(f.uow, f.clock).Adjust(ctx, reqdto.AdjustCreditsRequest{
			UserID:    f.userID,
			EntryType: "debit",
			Credits:   500,
		})
		assert.ErrorIs(t, err, commands.ErrInsufficientCredits)
		assert.Len(t, f.uow.ledger, 1)
	})

	t.Run("allow_negative permits an overdraw", func(t *testing.T) {
		f := newFixture()
		f.seedBalance(t, 300)
		view, err := commands.NewCreditCommands(f.uow, f.clock).Adjust(ctx, reqdto.AdjustCreditsRequest{
			UserID:        f.userID,
			EntryType:     "debit",
			Credits:       500,
			AllowNegative: true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(-200), view.BalanceAfter)
	})

	t.Run("empty reason defaults to adjust", func(t *testing.T) {
		f := newFixture()
		view, err := commands.NewCreditCommands(f.uow, f.clock).Adjust(ctx, reqdto.AdjustCreditsRequest{
			UserID:    f.userID,
			EntryType: "credit",
			Credits:   100,
		})
		require.NoError(t, err)
		assert.Equal(t, "adjust", view.Reason)
	})

	t.Run("retried adjustment writes a single entry", func(t *testing.T) {
		f := newFixture()
		key := "grant-2026-03"
		cmds := commands.NewCreditCommands(f.uow, f.clock)
		req := reqdto.AdjustCreditsRequest{
			UserID:         f.userID,
			EntryType:      "credit",
			Credits:        1000,
			IdempotencyKey: &key,
		}

		first, err := cmds.Adjust(ctx, req)
		require.NoError(t, err)
		second, err := cmds.Adjust(ctx, req)
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(first, second))
		assert.Len(t, f.uow.ledger, 1)
		assert.Equal(t, []string{commands.EventWalletAdjusted}, f.uow.eventTypes())
	})

	t.Run("unknown entry type", func(t *testing.T) {
		f := newFixture()
		_, err := commands.NewCreditCommands(f.uow, f.clock).Adjust(ctx, reqdto.AdjustCreditsRequest{
			UserID:    f.userID,
			EntryType: "transfer",
			Credits:   100,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidAdjustment)
	})
}
