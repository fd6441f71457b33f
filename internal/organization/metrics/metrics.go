package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"onboard/internal/organization/outcome"
)

// Metrics provides observability for organization registration.
type Metrics struct {
	Registrations        *prometheus.CounterVec
	RegistrationDuration prometheus.Histogram
}

// New registers the organization metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_registrations_total",
			Help: "Total number of organization registrations by outcome",
		}, []string{"outcome"}),
		RegistrationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboard_registration_duration_seconds",
			Help:    "Duration of organization registrations (lookup, validation and atomic create)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObserveRegistration records a finished registration.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegistration(kind outcome.Kind, start time.Time) {
	m.Registrations.WithLabelValues(string(kind)).Inc()
	m.RegistrationDuration.Observe(time.Since(start).Seconds())
}
