package infra

import (
	"time"

	"airport-gateway/airport/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implementa domain.ClaimObserver com coletores Prometheus.
type Metrics struct {
	claims *prometheus.CounterVec
	wait   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airport",
			Name:      "claims_total",
			Help:      "Claim attempts by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		wait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "airport",
			Name:      "claim_duration_seconds",
			Help:      "Time spent on a claim, including rate limit and admission.",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
		}, []string{"strategy"}),
	}
	for _, c := range []prometheus.Collector{m.claims, m.wait} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveClaim(strategy domain.Strategy, outcome domain.Outcome, wait time.Duration) {
	m.claims.WithLabelValues(string(strategy), outcome.String()).Inc()
	m.wait.WithLabelValues(string(strategy)).Observe(wait.Seconds())
}
