package wallet

type EntryType string

const (
	TypeCredit EntryType = "credit"
	TypeDebit  EntryType = "debit"
)

func (t EntryType) String() string {
	return string(t)
}

func (t EntryType) IsValid() bool {
	return t == TypeCredit || t == TypeDebit
}

// Reason is a free-form business tag; these are the values the core writes.
type Reason string

const (
	ReasonPurchase           Reason = "purchase"
	ReasonRefund             Reason = "refund"
	ReasonAdjust             Reason = "adjust"
	ReasonReservationPayment Reason = "reservation_payment"
)

func (r Reason) String() string {
	return string(r)
}

// Metadata carries structured context (actor, source reservation, notes).
// Stored as jsonb.
type Metadata map[string]string
