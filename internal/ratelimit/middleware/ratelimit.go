// Package middleware applies rate limit policies to HTTP routes.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"reunion/internal/audit"
	"reunion/internal/ratelimit/models"
	"reunion/pkg/platform/httputil"
	"reunion/pkg/platform/middleware/metadata"
	"reunion/pkg/platform/middleware/request"
)

// RateLimiter is the admission check consumed by the middleware.
type RateLimiter interface {
	Check(ctx context.Context, identity string, class models.EndpointClass) (*models.RateLimitResult, error)
}

// Middleware wraps routes with rate limit checks keyed by client identity.
type Middleware struct {
	limiter   RateLimiter
	logger    *slog.Logger
	publisher audit.Publisher
	disabled  bool
}

type Option func(*Middleware)

// WithDisabled turns rate limiting off entirely (tests and demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithAuditPublisher emits an audit event on each rejection.
func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(m *Middleware) {
		m.publisher = publisher
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{limiter: limiter, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Limit returns middleware enforcing the policy for the given endpoint class.
func (m *Middleware) Limit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			identity := metadata.GetClientIP(ctx)

			result, err := m.limiter.Check(ctx, identity, class)
			if err != nil {
				// Fail open: an unavailable limiter store must not take
				// the whole service down with it.
				m.logger.ErrorContext(ctx, "rate limit check failed", "error", err, "endpoint_class", class)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)

			if !result.Allowed {
				audit.Log(ctx, m.logger, m.publisher, audit.Event{
					Action:    audit.ActionRateLimitExceeded,
					RequestID: request.GetRequestID(ctx),
					Detail:    string(class),
				})
				writeRateLimitExceeded(w, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Too many requests. Please try again later.",
		"retry_after": result.RetryAfter,
	})
}
