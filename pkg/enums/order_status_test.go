package enums

import "testing"

func TestOrderStatusForwardOnlyTransitions(t *testing.T) {
	chain := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusDelivered,
	}
	for i := 0; i < len(chain)-1; i++ {
		if !chain[i].CanTransitionTo(chain[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", chain[i], chain[i+1])
		}
		if chain[i+1].CanTransitionTo(chain[i]) {
			t.Fatalf("expected %s -> %s to be rejected", chain[i+1], chain[i])
		}
	}
}

func TestOrderStatusRejectsSkipsAndSelfLoops(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
	}{
		{OrderStatusPending, OrderStatusPreparing},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusConfirmed, OrderStatusReady},
		{OrderStatusPending, OrderStatusPending},
		{OrderStatusDelivered, OrderStatusDelivered},
		{OrderStatusPreparing, OrderStatusCancelled},
		{OrderStatusCancelled, OrderStatusPending},
	}
	for _, tc := range cases {
		if tc.from.CanTransitionTo(tc.to) {
			t.Fatalf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !OrderStatusDelivered.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Fatal("delivered and cancelled must be terminal")
	}
	if OrderStatusReady.IsTerminal() {
		t.Fatal("ready is not terminal")
	}
	next := OrderStatusPending.NextStatuses()
	next[0] = OrderStatusDelivered
	if OrderStatusPending.NextStatuses()[0] != OrderStatusConfirmed {
		t.Fatal("NextStatuses must return a copy")
	}
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("Preparing")
	if err != nil || got != OrderStatusPreparing {
		t.Fatalf("unexpected parse result %q, %v", got, err)
	}
	if _, err := ParseOrderStatus("preparing"); err == nil {
		t.Fatal("statuses are case sensitive")
	}
	if _, err := ParseOrderStatus("Shipped"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestParseEnumsRejectUnknown(t *testing.T) {
	if _, err := ParseDeliveryOption("drone"); err == nil {
		t.Fatal("expected invalid delivery option")
	}
	if _, err := ParsePaymentMethod("cheque"); err == nil {
		t.Fatal("expected invalid payment method")
	}
	if _, err := ParseAddressLabel("Cottage"); err == nil {
		t.Fatal("expected invalid address label")
	}
	if m, err := ParsePaymentMethod("upi"); err != nil || m != PaymentMethodUPI {
		t.Fatalf("unexpected payment method %q, %v", m, err)
	}
}

func TestOrDefaults(t *testing.T) {
	if DeliveryOption("").OrDefault() != DeliveryOptionHome {
		t.Fatal("unset delivery option should default to home delivery")
	}
	if DeliveryOptionPickup.OrDefault() != DeliveryOptionPickup {
		t.Fatal("explicit delivery option must be kept")
	}
	if PaymentMethod("").OrDefault() != PaymentMethodCOD {
		t.Fatal("unset payment method should default to cod")
	}
	if AddressLabel("").OrDefault() != AddressLabelHome {
		t.Fatal("unset label should default to Home")
	}
	if AddressLabel("Cottage").OrDefault().IsValid() {
		t.Fatal("OrDefault must not mask unknown labels")
	}
}
