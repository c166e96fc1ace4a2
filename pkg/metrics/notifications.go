package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotificationMetrics tracks best-effort notification delivery per channel.
type NotificationMetrics struct {
	duration  *prometheus.HistogramVec
	delivered *prometheus.CounterVec
	failed    *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	depth     prometheus.Gauge
}

// NewNotificationMetrics registers the notification metrics on reg. A nil
// registerer yields a no-op collector.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notification_delivery_seconds",
		Help:    "Time spent delivering a notification.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Notifications handed to a sink successfully.",
	}, []string{"channel"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Notifications whose delivery returned an error.",
	}, []string{"channel"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "Notifications discarded before delivery because the queue was full or closed.",
	}, []string{"channel"})
	depth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "notifications_queue_depth",
		Help: "Notifications waiting on the redis queue, sampled by the worker.",
	})
	reg.MustRegister(duration, delivered, failed, dropped, depth)
	return &NotificationMetrics{
		duration:  duration,
		delivered: delivered,
		failed:    failed,
		dropped:   dropped,
		depth:     depth,
	}
}

// ObserveDuration records how long a delivery attempt took.
func (n *NotificationMetrics) ObserveDuration(channel string, d time.Duration) {
	if n == nil || n.duration == nil {
		return
	}
	n.duration.WithLabelValues(normalizeLabel(channel)).Observe(d.Seconds())
}

func (n *NotificationMetrics) IncDelivered(channel string) {
	if n == nil || n.delivered == nil {
		return
	}
	n.delivered.WithLabelValues(normalizeLabel(channel)).Inc()
}

func (n *NotificationMetrics) IncFailed(channel string) {
	if n == nil || n.failed == nil {
		return
	}
	n.failed.WithLabelValues(normalizeLabel(channel)).Inc()
}

func (n *NotificationMetrics) IncDropped(channel string) {
	if n == nil || n.dropped == nil {
		return
	}
	n.dropped.WithLabelValues(normalizeLabel(channel)).Inc()
}

// SetQueueDepth records the latest queue length sample.
func (n *NotificationMetrics) SetQueueDepth(depth int64) {
	if n == nil || n.depth == nil {
		return
	}
	n.depth.Set(float64(depth))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
