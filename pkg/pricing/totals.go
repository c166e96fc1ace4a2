package pricing

import "github.com/grambazaar/storefront-backend/pkg/enums"

// Line is a priced order line captured at checkout.
type Line struct {
	UnitPrice Money
	Quantity  int
}

// Quote is the priced breakdown of an order.
type Quote struct {
	Subtotal    Money
	DeliveryFee Money
	Total       Money
	DistanceKm  float64
}

// Subtotal sums unit price times quantity over lines.
func Subtotal(lines []Line) Money {
	var sum Money
	for _, line := range lines {
		sum += line.UnitPrice.Times(line.Quantity)
	}
	return sum
}

// Quote prices lines. Only home delivery carries a delivery fee.
func (s Schedule) Quote(lines []Line, option enums.DeliveryOption, distanceKm float64) Quote {
	q := Quote{Subtotal: Subtotal(lines), DistanceKm: distanceKm}
	if option == enums.DeliveryOptionHome {
		q.DeliveryFee = s.DeliveryFee(q.Subtotal, distanceKm)
	}
	q.Total = q.Subtotal + q.DeliveryFee
	return q
}
