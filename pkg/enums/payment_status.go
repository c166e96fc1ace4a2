package enums

// PaymentStatus tracks whether an order has been paid for. Cash orders move
// to completed when they are delivered.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

var paymentStatuses = set[PaymentStatus]{PaymentStatusPending, PaymentStatusCompleted}

func (p PaymentStatus) String() string { return string(p) }

func (p PaymentStatus) IsValid() bool { return paymentStatuses.has(p) }
