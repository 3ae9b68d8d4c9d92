// Package service implements account creation and password login against the
// identity store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reunion/internal/audit"
	"reunion/internal/captcha"
	"reunion/internal/identity/models"
	"reunion/internal/identity/store"
	dErrors "reunion/pkg/domain-errors"
)

// TokenIssuer mints bearer tokens for verified accounts.
type TokenIssuer interface {
	Generate(userID, email string) (string, time.Time, error)
}

// Service handles signup and login.
type Service struct {
	users     store.UserStore
	tokens    TokenIssuer
	captcha   captcha.Verifier
	logger    *slog.Logger
	publisher audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func New(users store.UserStore, tokens TokenIssuer, verifier captcha.Verifier, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if verifier == nil {
		return nil, errors.New("captcha verifier is required")
	}

	svc := &Service{users: users, tokens: tokens, captcha: verifier}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Signup creates an account after human verification passes, then issues a
// bearer token.
func (s *Service) Signup(ctx context.Context, req *models.SignupRequest) (*models.TokenResponse, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.captcha.Verify(ctx, req.CaptchaToken); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.logger, s.publisher, audit.Event{
		Action:    audit.ActionUserCreated,
		Principal: user.ID,
	})

	return s.issue(user)
}

// Login verifies a password and issues a bearer token. Lookup misses and
// password mismatches produce the same error so account existence is not
// probeable.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		audit.Log(ctx, s.logger, s.publisher, audit.Event{
			Action: audit.ActionLoginFailed,
			Detail: req.Email,
		})
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	return s.issue(user)
}

func (s *Service) issue(user *models.User) (*models.TokenResponse, error) {
	signed, expiresAt, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return &models.TokenResponse{Token: signed, ExpiresAt: expiresAt}, nil
}
