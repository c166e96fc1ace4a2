package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNotificationMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewNotificationMetrics(reg)
	m.ObserveDuration("sms", 250*time.Millisecond)
	m.IncDelivered("sms")
	m.IncFailed("email")
	m.IncDropped("")
	m.SetQueueDepth(7)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "notifications_delivered_total", "channel", "sms"); err != nil {
		t.Fatalf("fetch delivered: %v", err)
	} else if got != 1 {
		t.Fatalf("expected delivered=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "notifications_failed_total", "channel", "email"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failed=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "notifications_dropped_total", "channel", "unknown"); err != nil {
		t.Fatalf("fetch dropped: %v", err)
	} else if got != 1 {
		t.Fatalf("expected dropped=1 under unknown label, got %f", got)
	}
	if mf := findMetricFamily(mfs, "notifications_queue_depth"); mf == nil || mf.GetMetric()[0].GetGauge().GetValue() != 7 {
		t.Fatalf("expected queue depth gauge of 7, got %v", mf)
	}
	if got, err := fetchHistogramSum(mfs, "notification_delivery_seconds", "channel", "sms"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestOrderMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)
	m.ObserveCreated("home_delivery", 52500)
	m.ObserveCreated("home_delivery", 10000)
	m.IncRejected("INSUFFICIENT_STOCK")
	m.IncTransition("Confirmed")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "orders_created_total", "delivery_option", "home_delivery"); err != nil || got != 2 {
		t.Fatalf("expected created=2, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "orders_rejected_total", "code", "INSUFFICIENT_STOCK"); err != nil || got != 1 {
		t.Fatalf("expected rejected=1, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "order_status_transitions_total", "status", "Confirmed"); err != nil || got != 1 {
		t.Fatalf("expected transitions=1, got %f err=%v", got, err)
	}
	mf := findMetricFamily(mfs, "order_final_amount_rupees")
	if mf == nil {
		t.Fatalf("histogram missing")
	}
	if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum != 625 {
		t.Fatalf("expected rupee sum 625, got %f", sum)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewOrderMetrics(nil).ObserveCreated("pickup", 100)
	NewNotificationMetrics(nil).IncFailed("sms")
	var m *OrderMetrics
	m.IncRejected("x")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
