//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"courtside/internal/domain/pricing"
	"courtside/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(t *testing.T, start, end time.Time) reservation.TimeSlot {
	t.Helper()
	s, err := reservation.NewTimeSlot(start, end)
	require.NoError(t, err)
	return s
}

func card(validFrom time.Time, validTo *time.Time) *pricing.RateCard {
	return &pricing.RateCard{
		ID:              uuid.New(),
		CourtID:         uuid.New(),
		DayRateCents:    2000,
		NightRateCents:  3000,
		NightStartsHour: 18,
		ValidFrom:       validFrom,
		ValidTo:         validTo,
	}
}

func approvedGrant(percent float64, from time.Time, to *time.Time) pricing.TariffGrant {
	return pricing.TariffGrant{
		TariffID:        uuid.New(),
		Segment:         "member",
		DiscountPercent: percent,
		ValidFrom:       from,
		ValidTo:         to,
		Enrollment:      pricing.EnrollmentApproved,
	}
}

func TestResolve(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	daySlot := slot(t,
		time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	nightSlot := slot(t,
		time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC))

	t.Run("day rate scales with duration", func(t *testing.T) {
		price, err := pricing.Resolve(card(epoch, nil), nil, daySlot)
		require.NoError(t, err)
		assert.Equal(t, int64(4000), price)
	})

	t.Run("night rate after the threshold", func(t *testing.T) {
		price, err := pricing.Resolve(card(epoch, nil), nil, nightSlot)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), price)
	})

	t.Run("half-hour slot prices pro rata", func(t *testing.T) {
		short := slot(t,
			time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC))
		price, err := pricing.Resolve(card(epoch, nil), nil, short)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), price)
	})

	t.Run("fractional hours price in exact cents", func(t *testing.T) {
		c := card(epoch, nil)
		c.DayRateCents = 1500
		forty := slot(t,
			time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 10, 10, 40, 0, 0, time.UTC))
		price, err := pricing.Resolve(c, nil, forty)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), price)
	})

	t.Run("fractional discount percentages keep cents exact", func(t *testing.T) {
		grants := []pricing.TariffGrant{approvedGrant(12.5, epoch, nil)}
		price, err := pricing.Resolve(card(epoch, nil), grants, daySlot)
		require.NoError(t, err)
		assert.Equal(t, int64(3500), price)
	})

	t.Run("best discount wins, no stacking", func(t *testing.T) {
		grants := []pricing.TariffGrant{
			approvedGrant(10, epoch, nil),
			approvedGrant(25, epoch, nil),
		}
		price, err := pricing.Resolve(card(epoch, nil), grants, daySlot)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), price)
	})

	t.Run("pending enrollment earns nothing", func(t *testing.T) {
		g := approvedGrant(50, epoch, nil)
		g.Enrollment = pricing.EnrollmentPending
		price, err := pricing.Resolve(card(epoch, nil), []pricing.TariffGrant{g}, daySlot)
		require.NoError(t, err)
		assert.Equal(t, int64(4000), price)
	})

	t.Run("expired grant earns nothing", func(t *testing.T) {
		to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		g := approvedGrant(50, epoch, &to)
		price, err := pricing.Resolve(card(epoch, nil), []pricing.TariffGrant{g}, daySlot)
		require.NoError(t, err)
		assert.Equal(t, int64(4000), price)
	})

	t.Run("discounts above 100 floor the price at zero", func(t *testing.T) {
		g := approvedGrant(150, epoch, nil)
		price, err := pricing.Resolve(card(epoch, nil), []pricing.TariffGrant{g}, daySlot)
		require.NoError(t, err)
		assert.Equal(t, int64(0), price)
	})

	t.Run("no rate card covering the date", func(t *testing.T) {
		_, err := pricing.Resolve(nil, nil, daySlot)
		assert.ErrorIs(t, err, pricing.ErrNoPricingConfigured)

		future := card(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), nil)
		_, err = pricing.Resolve(future, nil, daySlot)
		assert.ErrorIs(t, err, pricing.ErrNoPricingConfigured)
	})
}
