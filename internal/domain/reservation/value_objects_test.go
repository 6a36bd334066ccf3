//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"courtside/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlot(t *testing.T, start, end time.Time) reservation.TimeSlot {
	t.Helper()
	slot, err := reservation.NewTimeSlot(start, end)
	require.NoError(t, err)
	return slot
}

func TestTimeSlot(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("rejects inverted and empty intervals", func(t *testing.T) {
		_, err := reservation.NewTimeSlot(base, base)
		assert.Error(t, err)

		_, err = reservation.NewTimeSlot(base.Add(time.Hour), base)
		assert.Error(t, err)
	})

	t.Run("normalizes to UTC", func(t *testing.T) {
		loc := time.FixedZone("JST", 9*3600)
		slot := mustSlot(t, base.In(loc), base.Add(time.Hour).In(loc))
		assert.Equal(t, time.UTC, slot.Start().Location())
		assert.True(t, slot.Start().Equal(base))
	})

	t.Run("back-to-back slots do not overlap", func(t *testing.T) {
		first := mustSlot(t, base, base.Add(time.Hour))
		second := mustSlot(t, base.Add(time.Hour), base.Add(2*time.Hour))
		assert.False(t, first.Overlaps(second))
		assert.False(t, second.Overlaps(first))
	})

	t.Run("partial overlap detected both directions", func(t *testing.T) {
		first := mustSlot(t, base, base.Add(2*time.Hour))
		second := mustSlot(t, base.Add(time.Hour), base.Add(3*time.Hour))
		assert.True(t, first.Overlaps(second))
		assert.True(t, second.Overlaps(first))
	})

	t.Run("containment overlaps", func(t *testing.T) {
		outer := mustSlot(t, base, base.Add(3*time.Hour))
		inner := mustSlot(t, base.Add(time.Hour), base.Add(2*time.Hour))
		assert.True(t, outer.Overlaps(inner))
	})

	t.Run("operating hours boundaries", func(t *testing.T) {
		open := mustSlot(t, base, base.Add(time.Hour)) // 10:00-11:00
		assert.True(t, open.WithinHours(10, 22))
		assert.False(t, open.WithinHours(11, 22))

		closing := mustSlot(t,
			time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC))
		assert.True(t, closing.WithinHours(8, 22))
		assert.False(t, closing.WithinHours(8, 21))

		untilMidnight := mustSlot(t,
			time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
		assert.True(t, untilMidnight.WithinHours(8, 24))
	})
}

func TestMoney(t *testing.T) {
	_, err := reservation.NewMoney(-1)
	assert.Error(t, err)

	zero, err := reservation.NewMoney(0)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	m, err := reservation.NewMoney(2500)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), m.Cents())
}
