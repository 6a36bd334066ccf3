package gateway

import (
	"encoding/json"

	"courtside/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
)

var (
	ErrInvalidSignature = errs.New("webhook signature verification failed")
	ErrUnhandledEvent   = errs.New("unhandled gateway event type")
	ErrMissingReference = errs.New("gateway event has no reservation reference")
)

const reservationMetadataKey = "reservation_id"

type PaymentOutcome string

const (
	OutcomeSucceeded PaymentOutcome = "succeeded"
	OutcomeFailed    PaymentOutcome = "failed"
	OutcomeCancelled PaymentOutcome = "cancelled"
)

// PaymentEvent is the verified, provider-neutral form of a gateway
// notification.
type PaymentEvent struct {
	ReservationID uuid.UUID
	Outcome       PaymentOutcome
	ProviderRef   string
}

type StripeVerifier struct {
	webhookSecret string
}

func NewStripeVerifier(webhookSecret string) *StripeVerifier {
	return &StripeVerifier{webhookSecret: webhookSecret}
}

// Verify checks the payload signature and maps the event to a PaymentEvent.
// Verification failure is fail-closed: the caller must reject the delivery.
func (v *StripeVerifier) Verify(payload []byte, signatureHeader string) (*PaymentEvent, error) {
	opts := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.webhookSecret, opts)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSignature)
	}

	var outcome PaymentOutcome
	switch event.Type {
	case "payment_intent.succeeded":
		outcome = OutcomeSucceeded
	case "payment_intent.payment_failed":
		outcome = OutcomeFailed
	case "payment_intent.canceled":
		outcome = OutcomeCancelled
	default:
		return nil, errs.Mark(errs.New(string(event.Type)), ErrUnhandledEvent)
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, errs.Wrap(err, "failed to decode payment intent")
	}

	rawID, ok := intent.Metadata[reservationMetadataKey]
	if !ok {
		return nil, ErrMissingReference
	}
	reservationID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errs.Mark(err, ErrMissingReference)
	}

	return &PaymentEvent{
		ReservationID: reservationID,
		Outcome:       outcome,
		ProviderRef:   intent.ID,
	}, nil
}
