// Package metrics exposes Prometheus metrics for registration reconciliation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registration pipeline's Prometheus collectors.
type Metrics struct {
	SubmissionsTotal   *prometheus.CounterVec
	RegenerationsTotal prometheus.Counter
	EmailSendsTotal    *prometheus.CounterVec
	ReconcileDuration  prometheus.Histogram
}

// New creates and registers the registration metrics on the given registerer.
// Tests pass a fresh prometheus.NewRegistry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reunion_registration_submissions_total",
			Help: "Registration submissions processed, by outcome.",
		}, []string{"outcome"}),
		RegenerationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "reunion_credential_regenerations_total",
			Help: "Credential artifacts generated.",
		}),
		EmailSendsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reunion_notification_emails_total",
			Help: "Confirmation email send attempts, by result.",
		}, []string{"result"}),
		ReconcileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reunion_registration_reconcile_duration_seconds",
			Help:    "Wall time of a full registration reconciliation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
