package enums

// OrderStatus tracks fulfillment of a storefront order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusPreparing OrderStatus = "Preparing"
	OrderStatusReady     OrderStatus = "Ready"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var orderStatuses = set[OrderStatus]{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// orderTransitions lists the only targets reachable from each status.
// Fulfillment moves one step at a time; cancellation is open until preparation starts.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady},
	OrderStatusReady:     {OrderStatusDelivered},
}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) IsValid() bool { return orderStatuses.has(s) }

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return set[OrderStatus](orderTransitions[s]).has(next)
}

// NextStatuses returns the statuses reachable from s.
func (s OrderStatus) NextStatuses() []OrderStatus {
	next := orderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// ParseOrderStatus converts raw input into an OrderStatus. Matching is
// case sensitive.
func ParseOrderStatus(value string) (OrderStatus, error) {
	return orderStatuses.parse("order status", value)
}
