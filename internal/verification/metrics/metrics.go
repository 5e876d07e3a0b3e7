package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification flow.
type Metrics struct {
	// Terminal outcomes by kind
	Outcomes *prometheus.CounterVec

	// Duration of the biometric check itself
	BiometricLatency prometheus.Histogram
}

// New creates a new Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "votegate_verification_outcomes_total",
			Help: "Total verification flow outcomes by kind",
		}, []string{"outcome"}),

		BiometricLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "votegate_biometric_check_duration_seconds",
			Help:    "Duration of biometric authenticator calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncrementOutcome records a terminal flow outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome).Inc()
	}
}

// ObserveBiometricLatency records the duration of one authenticator call.
func (m *Metrics) ObserveBiometricLatency(d time.Duration) {
	if m != nil {
		m.BiometricLatency.Observe(d.Seconds())
	}
}
