package reservation

// Status is the single lifecycle axis. Exactly one status holds at any
// time; completed, cancelled and no_show are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// PaymentStatus is an independent axis: a cancelled reservation may still
// be paid until the refund lands.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) String() string {
	return string(p)
}

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	default:
		return false
	}
}

type PaymentMethod string

const (
	MethodCredits      PaymentMethod = "credits"
	MethodGateway      PaymentMethod = "gateway"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodOnSite       PaymentMethod = "on_site"
	MethodCourtesy     PaymentMethod = "courtesy"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCredits, MethodGateway, MethodBankTransfer, MethodOnSite, MethodCourtesy:
		return true
	default:
		return false
	}
}

// SettlesAsync reports whether the method settles out of band. Async
// methods keep their slot past the normal hold window.
func (m PaymentMethod) SettlesAsync() bool {
	switch m {
	case MethodBankTransfer, MethodOnSite, MethodCourtesy:
		return true
	default:
		return false
	}
}
