package pricing

import (
	"errors"
	"math"
	"time"

	"courtside/internal/domain/reservation"

	"github.com/google/uuid"
)

var ErrNoPricingConfigured = errors.New("no pricing configured for court")

// RateCard is the base price for a court: day rate until nightStartsHour,
// night rate after. Validity windows let operators stage seasonal prices.
type RateCard struct {
	ID              uuid.UUID
	CourtID         uuid.UUID
	DayRateCents    int64
	NightRateCents  int64
	NightStartsHour int
	ValidFrom       time.Time
	ValidTo         *time.Time
}

func (rc RateCard) CoversDate(at time.Time) bool {
	if at.Before(rc.ValidFrom) {
		return false
	}
	if rc.ValidTo != nil && at.After(*rc.ValidTo) {
		return false
	}
	return true
}

// HourlyRateFor picks day vs night rate by the slot's start hour (UTC).
func (rc RateCard) HourlyRateFor(start time.Time) int64 {
	if start.UTC().Hour() >= rc.NightStartsHour {
		return rc.NightRateCents
	}
	return rc.DayRateCents
}

// Resolve computes the slot price: hourly base rate scaled by duration,
// minus the best approved tariff discount, floored at zero.
func Resolve(rate *RateCard, grants []TariffGrant, slot reservation.TimeSlot) (int64, error) {
	if rate == nil || !rate.CoversDate(slot.Start()) {
		return 0, ErrNoPricingConfigured
	}

	hourly := rate.HourlyRateFor(slot.Start())
	minutes := int64(slot.Duration() / time.Minute)
	base := hourly * minutes / 60

	discount := BestDiscountPercent(grants, slot.Start())
	if discount > 0 {
		// Integer cents throughout; discounts carry basis-point precision.
		bps := int64(math.Round(discount * 100))
		base = base * (10000 - bps) / 10000
	}
	if base < 0 {
		base = 0
	}
	return base, nil
}
