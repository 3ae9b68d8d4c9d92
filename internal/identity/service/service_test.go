package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"reunion/internal/audit"
	"reunion/internal/captcha"
	"reunion/internal/identity/models"
	"reunion/internal/identity/store"
	"reunion/internal/identity/token"
	dErrors "reunion/pkg/domain-errors"
)

type IdentityServiceSuite struct {
	suite.Suite
	service   *Service
	publisher *audit.InMemoryPublisher
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	s.publisher = audit.NewInMemoryPublisher()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	s.service, err = New(
		store.NewInMemoryStore(),
		token.NewService("test-key", "reunion", time.Hour),
		captcha.AlwaysPass{},
		WithLogger(logger),
		WithAuditPublisher(s.publisher),
	)
	s.Require().NoError(err)
}

func (s *IdentityServiceSuite) signup(email string) *models.TokenResponse {
	resp, err := s.service.Signup(context.Background(), &models.SignupRequest{
		Email:        email,
		Password:     "correct-horse",
		CaptchaToken: "ok",
	})
	s.Require().NoError(err)
	return resp
}

func (s *IdentityServiceSuite) TestSignupIssuesToken() {
	resp := s.signup("Ana@X.com")
	s.NotEmpty(resp.Token)
	s.True(resp.ExpiresAt.After(time.Now()))

	s.Len(s.publisher.ByAction(audit.ActionUserCreated), 1)
}

func (s *IdentityServiceSuite) TestSignupNormalizesEmail() {
	s.signup("Ana@X.com")

	// Login with the lowercase form succeeds.
	resp, err := s.service.Login(context.Background(), &models.LoginRequest{
		Email:    "ana@x.com",
		Password: "correct-horse",
	})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)
}

func (s *IdentityServiceSuite) TestSignupDuplicateEmail() {
	s.signup("ana@x.com")

	_, err := s.service.Signup(context.Background(), &models.SignupRequest{
		Email:        "ana@x.com",
		Password:     "another-pass",
		CaptchaToken: "ok",
	})
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
}

func (s *IdentityServiceSuite) TestSignupValidation() {
	_, err := s.service.Signup(context.Background(), &models.SignupRequest{
		Email:    "not-an-email",
		Password: "correct-horse",
	})
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))

	_, err = s.service.Signup(context.Background(), &models.SignupRequest{
		Email:    "ana@x.com",
		Password: "short",
	})
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
}

func (s *IdentityServiceSuite) TestSignupFailedCaptcha() {
	svc, err := New(
		store.NewInMemoryStore(),
		token.NewService("test-key", "reunion", time.Hour),
		rejectingVerifier{},
	)
	s.Require().NoError(err)

	_, err = svc.Signup(context.Background(), &models.SignupRequest{
		Email:        "ana@x.com",
		Password:     "correct-horse",
		CaptchaToken: "bad",
	})
	s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
}

func (s *IdentityServiceSuite) TestLoginWrongPassword() {
	s.signup("ana@x.com")

	_, err := s.service.Login(context.Background(), &models.LoginRequest{
		Email:    "ana@x.com",
		Password: "wrong",
	})
	s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
}

func (s *IdentityServiceSuite) TestLoginUnknownAccountSameError() {
	s.signup("ana@x.com")

	_, wrongPass := s.service.Login(context.Background(), &models.LoginRequest{
		Email:    "ana@x.com",
		Password: "wrong",
	})
	_, unknown := s.service.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@x.com",
		Password: "wrong",
	})
	s.Equal(wrongPass.Error(), unknown.Error(), "login failures must not reveal account existence")
}

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(context.Context, string) error {
	return dErrors.New(dErrors.CodeUnauthorized, "captcha verification failed")
}
