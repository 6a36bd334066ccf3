//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"courtside/internal/domain/reservation"
	"courtside/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) sweeperCommands() commands.SweeperCommands {
	return commands.NewSweeperCommands(f.uow, f.clock, f.cfg)
}

// tickingClock advances on every read, the way a real clock does between
// candidate selection and per-row processing.
type tickingClock struct {
	now  time.Time
	step time.Duration
}

func (c *tickingClock) Now() time.Time {
	n := c.now
	c.now = c.now.Add(c.step)
	return n
}

func TestExpirePending(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels lapsed holds only", func(t *testing.T) {
		f := newFixture()
		lapsed := f.seedReservation(t, reservation.MethodCredits, 2000)
		fresh := f.seedReservation(t, reservation.MethodBankTransfer, 2000)

		f.clock.Set(testNow.Add(f.cfg.HoldWindow + time.Minute))
		swept, err := f.sweeperCommands().ExpirePending(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, swept)

		assert.Equal(t, reservation.StatusCancelled, f.uow.reservations[lapsed.ID()].Status())
		assert.Equal(t, reservation.StatusPending, f.uow.reservations[fresh.ID()].Status())
		assert.Equal(t, []string{commands.EventReservationExpired}, f.uow.eventTypes())
	})

	t.Run("second pass finds nothing", func(t *testing.T) {
		f := newFixture()
		f.seedReservation(t, reservation.MethodCredits, 2000)
		cmds := f.sweeperCommands()

		f.clock.Set(testNow.Add(f.cfg.HoldWindow + time.Minute))
		swept, err := cmds.ExpirePending(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, swept)

		swept, err = cmds.ExpirePending(ctx)
		require.NoError(t, err)
		assert.Zero(t, swept)
	})

	t.Run("events carry the pass timestamp", func(t *testing.T) {
		f := newFixture()
		f.seedReservation(t, reservation.MethodCredits, 2000)

		passStart := testNow.Add(f.cfg.HoldWindow + time.Minute)
		cmds := commands.NewSweeperCommands(f.uow, &tickingClock{now: passStart, step: time.Second}, f.cfg)

		swept, err := cmds.ExpirePending(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, swept)

		require.Len(t, f.uow.outbox, 1)
		var payload struct {
			OccurredAt time.Time `json:"occurred_at"`
		}
		require.NoError(t, json.Unmarshal(f.uow.outbox[0].Data, &payload))
		assert.True(t, payload.OccurredAt.Equal(passStart))
	})

	t.Run("paid reservations are left alone", func(t *testing.T) {
		f := newFixture()
		f.seedBalance(t, 5000)
		res := f.seedReservation(t, reservation.MethodCredits, 2000)
		require.NoError(t, f.paymentCommands(&fakeVerifier{}).PayWithCredits(ctx, f.userID, res.ID()))

		f.clock.Set(testNow.Add(time.Hour))
		swept, err := f.sweeperCommands().ExpirePending(ctx)
		require.NoError(t, err)
		assert.Zero(t, swept)
		assert.Equal(t, reservation.StatusPaid, f.uow.reservations[res.ID()].Status())
	})
}

func TestMarkNoShows(t *testing.T) {
	ctx := context.Background()

	t.Run("flags paid reservations nobody showed up for", func(t *testing.T) {
		f := newFixture()
		f.seedBalance(t, 5000)
		res := f.seedReservation(t, reservation.MethodCredits, 2000)
		require.NoError(t, f.paymentCommands(&fakeVerifier{}).PayWithCredits(ctx, f.userID, res.ID()))

		f.clock.Set(testEnd.Add(f.cfg.NoShowGrace + time.Minute))
		swept, err := f.sweeperCommands().MarkNoShows(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, swept)
		assert.Equal(t, reservation.StatusNoShow, f.uow.reservations[res.ID()].Status())
	})

	t.Run("grace period has to elapse", func(t *testing.T) {
		f := newFixture()
		f.seedBalance(t, 5000)
		res := f.seedReservation(t, reservation.MethodCredits, 2000)
		require.NoError(t, f.paymentCommands(&fakeVerifier{}).PayWithCredits(ctx, f.userID, res.ID()))

		f.clock.Set(testEnd.Add(f.cfg.NoShowGrace - time.Minute))
		swept, err := f.sweeperCommands().MarkNoShows(ctx)
		require.NoError(t, err)
		assert.Zero(t, swept)
	})

	t.Run("checked-in sessions are skipped", func(t *testing.T) {
		f := newFixture()
		f.seedBalance(t, 5000)
		res := f.seedReservation(t, reservation.MethodCredits, 2000)
		require.NoError(t, f.paymentCommands(&fakeVerifier{}).PayWithCredits(ctx, f.userID, res.ID()))
		f.clock.Set(testStart)
		require.NoError(t, f.reservationCommands().CheckIn(ctx, res.ID()))

		f.clock.Set(testEnd.Add(f.cfg.NoShowGrace + time.Hour))
		swept, err := f.sweeperCommands().MarkNoShows(ctx)
		require.NoError(t, err)
		assert.Zero(t, swept)
		assert.Equal(t, reservation.StatusInProgress, f.uow.reservations[res.ID()].Status())
	})
}

func TestAutoComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("closes overrun sessions", func(t *testing.T) {
		f := newFixture()
		f.seedBalance(t, 5000)
		res := f.seedReservation(t, reservation.MethodCredits, 2000)
		require.NoError(t, f.paymentCommands(&fakeVerifier{}).PayWithCredits(ctx, f.userID, res.ID()))
		f.clock.Set(testStart)
		require.NoError(t, f.reservationCommands().CheckIn(ctx, res.ID()))

		f.clock.Set(testEnd.Add(time.Minute))
		swept, err := f.sweeperCommands().AutoComplete(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, swept)

		stored := f.uow.reservations[res.ID()]
		assert.Equal(t, reservation.StatusCompleted, stored.Status())
		require.NotNil(t, stored.CheckOutTime())
	})

	t.Run("running sessions stay open", func(t *testing.T) {
		f := newFixture()
		f.seedBalance(t, 5000)
		res := f.seedReservation(t, reservation.MethodCredits, 2000)
		require.NoError(t, f.paymentCommands(&fakeVerifier{}).PayWithCredits(ctx, f.userID, res.ID()))
		f.clock.Set(testStart)
		require.NoError(t, f.reservationCommands().CheckIn(ctx, res.ID()))

		f.clock.Set(testEnd.Add(-time.Minute))
		swept, err := f.sweeperCommands().AutoComplete(ctx)
		require.NoError(t, err)
		assert.Zero(t, swept)
	})
}
