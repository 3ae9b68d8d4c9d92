// Package models holds the identity domain types and request/response shapes.
package models

import (
	"strings"
	"time"

	dErrors "reunion/pkg/domain-errors"
)

// User is an account held by the identity service.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// SignupRequest creates a new account. CaptchaToken is the human-verification
// challenge response.
type SignupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken"`
}

// Normalize trims and lowercases the email so lookups are case-insensitive.
func (r *SignupRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate enforces field requirements before any collaborator is called.
func (r *SignupRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return dErrors.New(dErrors.CodeBadRequest, "a valid email is required")
	}
	if len(r.Password) < 8 {
		return dErrors.New(dErrors.CodeBadRequest, "password must be at least 8 characters")
	}
	return nil
}

// LoginRequest is a password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
