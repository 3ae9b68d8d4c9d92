// Package models holds the registration domain types.
package models

import (
	"strings"
	"time"

	dErrors "reunion/pkg/domain-errors"
)

// RegistrationRecord is the one-per-principal persisted registration row.
// QRCodeURL is empty until the first credential artifact is generated; once
// set it always references an artifact whose encoded content was derived from
// the phone number at the time of the last regeneration.
type RegistrationRecord struct {
	PrincipalID     string    `json:"-"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Location        string    `json:"location"`
	Adults          int       `json:"adults"`
	Kids            int       `json:"kids"`
	FridayDinner    bool      `json:"fridayDinner"`
	SaturdayBanquet bool      `json:"saturdayBanquet"`
	SundayBrunch    bool      `json:"sundayBrunch"`
	QRCodeURL       string    `json:"qrCodeUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// RegisterRequest is the participant field set submitted on registration.
// Absent numeric fields decode to zero; absent flags to false.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
	Adults          int    `json:"adults"`
	Kids            int    `json:"kids"`
	FridayDinner    bool   `json:"fridayDinner"`
	SaturdayBanquet bool   `json:"saturdayBanquet"`
	SundayBrunch    bool   `json:"sundayBrunch"`
}

// Normalize trims whitespace from the identity-affecting fields so that
// cosmetic client differences do not churn credentials.
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Location = strings.TrimSpace(r.Location)
}

// Validate enforces required fields before any collaborator is called.
func (r *RegisterRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return dErrors.New(dErrors.CodeBadRequest, "a valid email is required")
	}
	if r.Phone == "" {
		return dErrors.New(dErrors.CodeBadRequest, "phone is required")
	}
	if r.Adults < 0 || r.Kids < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "head counts cannot be negative")
	}
	return nil
}

// RegisterResponse reports the reconciliation outcome. EmailSent is false
// both when no notification was needed and when a best-effort send failed.
type RegisterResponse struct {
	Message   string `json:"message"`
	EmailSent bool   `json:"emailSent"`
}
