package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the voter module.
type Metrics struct {
	VotersRegistered      prometheus.Counter
	RegistrationsRejected *prometheus.CounterVec
}

// New creates a new Metrics instance with all voter module metrics registered.
func New() *Metrics {
	return &Metrics{
		VotersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "votegate_voters_registered_total",
			Help: "Total number of voters registered",
		}),
		RegistrationsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "votegate_registrations_rejected_total",
			Help: "Total registrations rejected by reason",
		}, []string{"reason"}), // reason: "validation", "enrollment", "storage"
	}
}

// IncrementRegistered records a successful registration.
func (m *Metrics) IncrementRegistered() {
	if m != nil {
		m.VotersRegistered.Inc()
	}
}

// IncrementRejected records a rejected registration.
func (m *Metrics) IncrementRejected(reason string) {
	if m != nil {
		m.RegistrationsRejected.WithLabelValues(reason).Inc()
	}
}
