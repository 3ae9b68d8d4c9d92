package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"reunion/internal/audit"
	"reunion/internal/platform/config"
	"reunion/internal/ratelimit/models"
	"reunion/internal/ratelimit/service"
	"reunion/internal/ratelimit/store/bucket"
	"reunion/pkg/platform/middleware/metadata"
)

type MiddlewareSuite struct {
	suite.Suite
	publisher *audit.InMemoryPublisher
	handler   http.Handler
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	cfg := config.RateLimit{
		BroadLimit:     100,
		BroadWindow:    15 * time.Minute,
		MutatingLimit:  2,
		MutatingWindow: time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := service.New(bucket.NewInMemoryStore(), cfg, service.WithLogger(logger))
	require.NoError(s.T(), err)

	s.publisher = audit.NewInMemoryPublisher()
	mw := New(svc, logger, WithAuditPublisher(s.publisher))

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.handler = metadata.ClientMetadata(mw.Limit(models.ClassMutating)(ok))
}

func (s *MiddlewareSuite) do(ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	req.Header.Set("X-Forwarded-For", ip)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *MiddlewareSuite) TestAdmitsUpToLimitThenRejects() {
	s.Equal(http.StatusOK, s.do("203.0.113.7").Code)
	s.Equal(http.StatusOK, s.do("203.0.113.7").Code)

	rec := s.do("203.0.113.7")
	s.Equal(http.StatusTooManyRequests, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("rate_limit_exceeded", body["error"])
	s.NotEmpty(body["message"])
}

func (s *MiddlewareSuite) TestRateLimitHeaders() {
	rec := s.do("203.0.113.7")
	s.Equal("2", rec.Header().Get("X-RateLimit-Limit"))
	s.Equal("1", rec.Header().Get("X-RateLimit-Remaining"))
	s.NotEmpty(rec.Header().Get("X-RateLimit-Reset"))

	s.do("203.0.113.7")
	rec = s.do("203.0.113.7")
	s.Equal("0", rec.Header().Get("X-RateLimit-Remaining"))
	s.NotEmpty(rec.Header().Get("Retry-After"))
}

func (s *MiddlewareSuite) TestForwardedIdentityIsolation() {
	s.do("203.0.113.7")
	s.do("203.0.113.7")
	s.Equal(http.StatusTooManyRequests, s.do("203.0.113.7").Code)

	// A different first-hop identity gets its own window, even if later
	// hops in the chain match.
	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.4, 203.0.113.7")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *MiddlewareSuite) TestRejectionEmitsAuditEvent() {
	s.do("203.0.113.7")
	s.do("203.0.113.7")
	s.do("203.0.113.7")

	events := s.publisher.ByAction(audit.ActionRateLimitExceeded)
	s.Require().Len(events, 1)
	s.Equal("mutating", events[0].Detail)
}

func (s *MiddlewareSuite) TestDisabledPassesEverything() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(bucket.NewInMemoryStore(), config.RateLimit{MutatingLimit: 1, MutatingWindow: time.Hour}, service.WithLogger(logger))
	require.NoError(s.T(), err)

	mw := New(svc, logger, WithDisabled(true))
	handler := metadata.ClientMetadata(mw.Limit(models.ClassMutating)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/register", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)
	}
}
