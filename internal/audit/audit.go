// Package audit records security-relevant actions. Emission is best-effort:
// an audit failure is logged but never changes the outcome of the request
// that produced the event.
package audit

import (
	"context"
	"log/slog"
	"time"
)

// Action identifies what happened.
type Action string

const (
	ActionUserCreated           Action = "user_created"
	ActionLoginFailed           Action = "login_failed"
	ActionRegistrationCreated   Action = "registration_created"
	ActionRegistrationUpdated   Action = "registration_updated"
	ActionCredentialRegenerated Action = "credential_regenerated"
	ActionEmailFailed           Action = "email_failed"
	ActionRateLimitExceeded     Action = "rate_limit_exceeded"
	ActionFileUploaded          Action = "file_uploaded"
)

// Event is emitted from domain logic to capture key actions. Kept transport
// agnostic so sinks can fan out.
type Event struct {
	Action    Action    `json:"action"`
	Principal string    `json:"principal,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher delivers audit events to a sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Log emits an event to both the structured logger and the publisher. The
// publisher may be nil (audit disabled).
func Log(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	if logger != nil {
		logger.InfoContext(ctx, string(event.Action),
			"log_type", "audit",
			"principal", event.Principal,
			"request_id", event.RequestID,
			"detail", event.Detail,
		)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
