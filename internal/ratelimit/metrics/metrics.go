// Package metrics exposes Prometheus metrics for the rate limiter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the rate limiter's Prometheus collectors.
type Metrics struct {
	RejectionsTotal *prometheus.CounterVec
	ChecksTotal     *prometheus.CounterVec
}

// New creates and registers the rate limit metrics on the given registerer.
// Tests pass a fresh prometheus.NewRegistry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reunion_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter, by endpoint class.",
		}, []string{"class"}),
		ChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reunion_rate_limit_checks_total",
			Help: "Rate limit checks performed, by endpoint class.",
		}, []string{"class"}),
	}
}
