// Package metrics exposes the dev backend's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the backend collectors. A nil *Metrics records nothing.
type Metrics struct {
	authAttempts     *prometheus.CounterVec
	messagesAppended prometheus.Counter
	subscribers      prometheus.Gauge
	tokensPruned     prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "auth_attempts_total",
			Help:      "Sign-in and sign-up attempts by operation and result code.",
		}, []string{"op", "result"}),
		messagesAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "messages_appended_total",
			Help:      "Messages appended to the collection.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chat",
			Name:      "snapshot_subscribers",
			Help:      "Open message snapshot subscriptions.",
		}),
		tokensPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "tokens_pruned_total",
			Help:      "Expired session tokens removed by the cleanup job.",
		}),
	}
	reg.MustRegister(m.authAttempts, m.messagesAppended, m.subscribers, m.tokensPruned)
	return m
}

// AuthAttempt counts one sign-in ("signin") or sign-up ("signup"). result is
// "ok" or the failure code.
func (m *Metrics) AuthAttempt(op, result string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(op, result).Inc()
}

// MessageAppended counts one append.
func (m *Metrics) MessageAppended() {
	if m == nil {
		return
	}
	m.messagesAppended.Inc()
}

// SubscriberAdded tracks an opened snapshot subscription.
func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

// SubscriberRemoved tracks a closed snapshot subscription.
func (m *Metrics) SubscriberRemoved() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}

// TokensPruned counts tokens removed by cleanup.
func (m *Metrics) TokensPruned(n int64) {
	if m == nil {
		return
	}
	m.tokensPruned.Add(float64(n))
}
