package enums

// DeliveryOption selects home delivery or in-store pickup.
type DeliveryOption string

const (
	DeliveryOptionHome   DeliveryOption = "home_delivery"
	DeliveryOptionPickup DeliveryOption = "pickup"
)

var deliveryOptions = set[DeliveryOption]{DeliveryOptionHome, DeliveryOptionPickup}

func (d DeliveryOption) String() string { return string(d) }

func (d DeliveryOption) IsValid() bool { return deliveryOptions.has(d) }

// OrDefault treats an unset option as home delivery.
func (d DeliveryOption) OrDefault() DeliveryOption {
	if d == "" {
		return DeliveryOptionHome
	}
	return d
}

func ParseDeliveryOption(value string) (DeliveryOption, error) {
	return deliveryOptions.parse("delivery option", value)
}
