// Package service implements sliding-window request admission per client
// identity, with a distinct tighter policy for mutating endpoints.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reunion/internal/platform/config"
	"reunion/internal/ratelimit/metrics"
	"reunion/internal/ratelimit/models"
	dErrors "reunion/pkg/domain-errors"
)

// Store manages sliding window rate limit counters.
type Store interface {
	// Allow checks if a request is admitted and consumes one slot if so.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)

	// Reset clears the counter for a key.
	Reset(ctx context.Context, key string) error
}

// Service applies the configured admission policies.
type Service struct {
	buckets Store
	config  config.RateLimit
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a rate limit service over the given bucket store.
func New(buckets Store, cfg config.RateLimit, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("bucket store is required")
	}

	svc := &Service{buckets: buckets, config: cfg}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Check admits or rejects one request for the given client identity and
// endpoint class.
func (s *Service) Check(ctx context.Context, identity string, class models.EndpointClass) (*models.RateLimitResult, error) {
	limit, window, err := s.policy(class)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ChecksTotal.WithLabelValues(string(class)).Inc()
	}

	result, err := s.buckets.Allow(ctx, models.BucketKey(identity, class), limit, window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	if !result.Allowed {
		if s.metrics != nil {
			s.metrics.RejectionsTotal.WithLabelValues(string(class)).Inc()
		}
		if s.logger != nil {
			s.logger.WarnContext(ctx, "rate limit exceeded",
				"endpoint_class", class,
				"limit", limit,
				"window_seconds", int(window.Seconds()),
			)
		}
	}

	return result, nil
}

func (s *Service) policy(class models.EndpointClass) (int, time.Duration, error) {
	switch class {
	case models.ClassBroad:
		return s.config.BroadLimit, s.config.BroadWindow, nil
	case models.ClassMutating:
		return s.config.MutatingLimit, s.config.MutatingWindow, nil
	default:
		return 0, 0, dErrors.New(dErrors.CodeInternal, "unknown endpoint class")
	}
}
