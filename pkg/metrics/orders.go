package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts checkout outcomes and status changes.
type OrderMetrics struct {
	created     *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	value       prometheus.Histogram
}

// NewOrderMetrics registers the order metrics on reg. A nil registerer
// yields a no-op collector.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders committed, by delivery option.",
	}, []string{"delivery_option"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Order creations rejected, by error code.",
	}, []string{"code"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Accepted order status changes, by target status.",
	}, []string{"status"})
	value := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_final_amount_rupees",
		Help:    "Final amount of committed orders in rupees.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
	reg.MustRegister(created, rejected, transitions, value)
	return &OrderMetrics{
		created:     created,
		rejected:    rejected,
		transitions: transitions,
		value:       value,
	}
}

// ObserveCreated counts a committed order and records its final amount in paise.
func (o *OrderMetrics) ObserveCreated(deliveryOption string, finalPaise int64) {
	if o == nil || o.created == nil {
		return
	}
	o.created.WithLabelValues(normalizeLabel(deliveryOption)).Inc()
	o.value.Observe(float64(finalPaise) / 100)
}

func (o *OrderMetrics) IncRejected(code string) {
	if o == nil || o.rejected == nil {
		return
	}
	o.rejected.WithLabelValues(normalizeLabel(code)).Inc()
}

func (o *OrderMetrics) IncTransition(status string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}
