package pricing

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

func (s EnrollmentStatus) String() string {
	return string(s)
}

// TariffGrant is a user's enrollment in a tariff joined with the tariff's
// discount terms. Only approved enrollments reach the resolver.
type TariffGrant struct {
	TariffID        uuid.UUID
	Segment         string
	DiscountPercent float64
	ValidFrom       time.Time
	ValidTo         *time.Time
	Enrollment      EnrollmentStatus
}

func (g TariffGrant) AppliesAt(at time.Time) bool {
	if g.Enrollment != EnrollmentApproved {
		return false
	}
	if at.Before(g.ValidFrom) {
		return false
	}
	if g.ValidTo != nil && at.After(*g.ValidTo) {
		return false
	}
	return true
}

// BestDiscountPercent picks the highest applicable discount; tariffs do
// not stack.
func BestDiscountPercent(grants []TariffGrant, at time.Time) float64 {
	best := 0.0
	for _, g := range grants {
		if g.AppliesAt(at) && g.DiscountPercent > best {
			best = g.DiscountPercent
		}
	}
	if best > 100 {
		best = 100
	}
	return best
}
