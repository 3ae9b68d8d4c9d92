// Package service reconciles registration submissions against stored state.
// Each submission is treated as the full desired state for the authenticated
// principal: the service detects identity changes, regenerates the check-in
// credential when needed, upserts the record, and notifies the participant.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"reunion/internal/audit"
	"reunion/internal/notify"
	"reunion/internal/registration/metrics"
	"reunion/internal/registration/models"
	"reunion/internal/registration/store"
	dErrors "reunion/pkg/domain-errors"
	authmw "reunion/pkg/platform/middleware/auth"
)

// ArtifactGenerator produces a fresh check-in credential for a phone number
// and returns its public URL.
type ArtifactGenerator interface {
	Generate(ctx context.Context, phone string) (string, error)
}

// Service is the registration reconciler.
type Service struct {
	registrations store.RegistrationStore
	generator     ArtifactGenerator
	mailer        notify.Mailer
	eventID       string
	logger        *slog.Logger
	publisher     audit.Publisher
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(registrations store.RegistrationStore, generator ArtifactGenerator, mailer notify.Mailer, eventID string, opts ...Option) (*Service, error) {
	if registrations == nil {
		return nil, errors.New("registration store is required")
	}
	if generator == nil {
		return nil, errors.New("artifact generator is required")
	}
	if mailer == nil {
		return nil, errors.New("mailer is required")
	}

	svc := &Service{
		registrations: registrations,
		generator:     generator,
		mailer:        mailer,
		eventID:       eventID,
		tracer:        otel.Tracer("reunion/registration"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Reconcile applies a submission for the given principal. It is idempotent:
// resubmitting identical fields performs no credential work and sends no
// email. Identity fields (name, email, phone) changing, or no prior record
// existing, triggers credential regeneration followed by a best-effort
// confirmation email.
func (s *Service) Reconcile(ctx context.Context, principal authmw.Principal, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Reconcile")
	defer span.End()
	start := time.Now()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.countSubmission("invalid")
		return nil, err
	}

	prior, err := s.registrations.FindByPrincipal(ctx, principal.UserID)
	if err != nil {
		s.countSubmission("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}

	regenerate := mustRegenerate(prior, req)
	span.SetAttributes(
		attribute.Bool("registration.first_time", prior == nil),
		attribute.Bool("registration.regenerate", regenerate),
	)

	qrURL := ""
	if prior != nil {
		qrURL = prior.QRCodeURL
	}
	if regenerate {
		qrURL, err = s.generator.Generate(ctx, req.Phone)
		if err != nil {
			s.countSubmission("error")
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.RegenerationsTotal.Inc()
		}
		audit.Log(ctx, s.logger, s.publisher, audit.Event{
			Action:    audit.ActionCredentialRegenerated,
			Principal: principal.UserID,
		})
	}

	stored, err := s.registrations.Upsert(ctx, &models.RegistrationRecord{
		PrincipalID:     principal.UserID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Location:        req.Location,
		Adults:          req.Adults,
		Kids:            req.Kids,
		FridayDinner:    req.FridayDinner,
		SaturdayBanquet: req.SaturdayBanquet,
		SundayBrunch:    req.SundayBrunch,
		QRCodeURL:       qrURL,
	})
	if err != nil {
		s.countSubmission("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}

	action := audit.ActionRegistrationUpdated
	message := "Registration updated"
	if prior == nil {
		action = audit.ActionRegistrationCreated
		message = "Registration confirmed"
	}
	audit.Log(ctx, s.logger, s.publisher, audit.Event{
		Action:    action,
		Principal: principal.UserID,
	})

	emailSent := false
	if regenerate {
		emailSent = s.sendConfirmation(ctx, principal.UserID, stored)
	}

	s.countSubmission("ok")
	if s.metrics != nil {
		s.metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	}

	return &models.RegisterResponse{Message: message, EmailSent: emailSent}, nil
}

// Get returns the principal's registration, or (nil, nil) when none exists.
func (s *Service) Get(ctx context.Context, principal authmw.Principal) (*models.RegistrationRecord, error) {
	rec, err := s.registrations.FindByPrincipal(ctx, principal.UserID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return rec, nil
}

// mustRegenerate reports whether the credential artifact must be rebuilt:
// always on first registration, otherwise only when an identity field
// changed. Head counts, location, and meal flags never trigger it.
func mustRegenerate(prior *models.RegistrationRecord, req *models.RegisterRequest) bool {
	if prior == nil {
		return true
	}
	return prior.Name != req.Name || prior.Email != req.Email || prior.Phone != req.Phone
}

// sendConfirmation delivers the credential email. Failures are recorded and
// logged but never fail the registration; the stored record stays committed.
func (s *Service) sendConfirmation(ctx context.Context, principalID string, rec *models.RegistrationRecord) bool {
	msg := notify.CredentialMessage{
		Name:      rec.Name,
		EventID:   s.eventID,
		QRCodeURL: rec.QRCodeURL,
	}
	body, err := msg.HTMLBody()
	if err == nil {
		err = s.mailer.Send(ctx, rec.Email, msg.Subject(), body)
	}
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "confirmation email failed",
				"principal", principalID,
				"error", err,
			)
		}
		audit.Log(ctx, s.logger, s.publisher, audit.Event{
			Action:    audit.ActionEmailFailed,
			Principal: principalID,
			Detail:    rec.Email,
		})
		s.countEmail("failure")
		return false
	}
	s.countEmail("success")
	return true
}

func (s *Service) countSubmission(outcome string) {
	if s.metrics != nil {
		s.metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countEmail(result string) {
	if s.metrics != nil {
		s.metrics.EmailSendsTotal.WithLabelValues(result).Inc()
	}
}
