package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks outbox relay throughput.
type Metrics struct {
	Published       prometheus.Counter
	PublishFailures prometheus.Counter
}

// New registers the outbox metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_outbox_published_total",
			Help: "Total number of outbox events published to the broker",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_outbox_publish_failures_total",
			Help: "Total number of failed outbox publish attempts",
		}),
	}
}
