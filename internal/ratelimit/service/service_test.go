package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"reunion/internal/platform/config"
	"reunion/internal/ratelimit/metrics"
	"reunion/internal/ratelimit/models"
	"reunion/internal/ratelimit/store/bucket"
)

type RateLimitServiceSuite struct {
	suite.Suite
	service *Service
}

func TestRateLimitServiceSuite(t *testing.T) {
	suite.Run(t, new(RateLimitServiceSuite))
}

func (s *RateLimitServiceSuite) SetupTest() {
	cfg := config.RateLimit{
		BroadLimit:     100,
		BroadWindow:    15 * time.Minute,
		MutatingLimit:  3,
		MutatingWindow: time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	s.service, err = New(
		bucket.NewInMemoryStore(),
		cfg,
		WithLogger(logger),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
	s.Require().NoError(err)
}

func (s *RateLimitServiceSuite) TestNew_RequiresStore() {
	_, err := New(nil, config.RateLimit{})
	s.Error(err)
	s.Contains(err.Error(), "bucket store is required")
}

func (s *RateLimitServiceSuite) TestCheck_MutatingPolicyIsTighter() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := s.service.Check(ctx, "203.0.113.7", models.ClassMutating)
		s.Require().NoError(err)
		s.True(res.Allowed)
	}

	res, err := s.service.Check(ctx, "203.0.113.7", models.ClassMutating)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(3, res.Limit)

	// The broad policy for the same identity is unaffected.
	res, err = s.service.Check(ctx, "203.0.113.7", models.ClassBroad)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(100, res.Limit)
}

func (s *RateLimitServiceSuite) TestCheck_IdentitiesAreIsolated() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.service.Check(ctx, "203.0.113.7", models.ClassMutating)
		s.Require().NoError(err)
	}

	res, err := s.service.Check(ctx, "198.51.100.4", models.ClassMutating)
	s.Require().NoError(err)
	s.True(res.Allowed, "another identity must not inherit the exhausted window")
}

func (s *RateLimitServiceSuite) TestCheck_UnknownClass() {
	_, err := s.service.Check(context.Background(), "203.0.113.7", models.EndpointClass("bogus"))
	s.Error(err)
}

func (s *RateLimitServiceSuite) TestCheck_ResultCarriesWindowMetadata() {
	res, err := s.service.Check(context.Background(), "203.0.113.7", models.ClassMutating)
	s.Require().NoError(err)
	s.Equal(3, res.Limit)
	s.Equal(2, res.Remaining)
	s.WithinDuration(time.Now().Add(time.Hour), res.ResetAt, 5*time.Second)
}
