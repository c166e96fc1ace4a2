package enums

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCard PaymentMethod = "card"
)

var paymentMethods = set[PaymentMethod]{PaymentMethodCOD, PaymentMethodUPI, PaymentMethodCard}

func (p PaymentMethod) String() string { return string(p) }

func (p PaymentMethod) IsValid() bool { return paymentMethods.has(p) }

// OrDefault treats an unset method as cash on delivery.
func (p PaymentMethod) OrDefault() PaymentMethod {
	if p == "" {
		return PaymentMethodCOD
	}
	return p
}

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	return paymentMethods.parse("payment method", value)
}
