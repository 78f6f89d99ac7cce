package events

import "github.com/prometheus/client_golang/prometheus"

const (
	DropReasonQueueFull   = "queue_full"
	DropReasonBreakerOpen = "breaker_open"
	DropReasonClosed      = "closed"
)

// Metrics captures delivery pipeline health signals.
type Metrics struct {
	delivered *prometheus.CounterVec
	failed    *prometheus.CounterVec
	attempts  *prometheus.CounterVec
	dropped   *prometheus.CounterVec
}

// NewMetrics registers the delivery counters against the given registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "keycloak_notifications_delivered_total",
		Help: "Notifications accepted by a backend endpoint, by event type.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "keycloak_notifications_failed_total",
		Help: "Notifications that exhausted every candidate endpoint, by event type.",
	}, []string{"event_type"})
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "keycloak_notification_attempts_total",
		Help: "Individual delivery attempts by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "keycloak_notifications_dropped_total",
		Help: "Notifications dropped before dispatch, by reason.",
	}, []string{"reason"})

	registerer.MustRegister(delivered, failed, attempts, dropped)

	return &Metrics{
		delivered: delivered,
		failed:    failed,
		attempts:  attempts,
		dropped:   dropped,
	}
}

func (m *Metrics) IncDelivered(kind Kind) {
	if m == nil || m.delivered == nil {
		return
	}
	m.delivered.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) IncFailed(kind Kind) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) IncAttempt(endpoint, outcome string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) IncDropped(reason string) {
	if m == nil || m.dropped == nil {
		return
	}
	m.dropped.WithLabelValues(reason).Inc()
}
