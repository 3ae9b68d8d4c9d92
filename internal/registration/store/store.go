// Package store persists registration records.
package store

import (
	"context"

	"reunion/internal/registration/models"
)

// RegistrationStore is the persistence contract for registration records.
// FindByPrincipal returns (nil, nil) when no record exists. Upsert must be
// atomic with respect to concurrent submissions for the same principal and
// returns the stored row including authoritative timestamps.
type RegistrationStore interface {
	FindByPrincipal(ctx context.Context, principalID string) (*models.RegistrationRecord, error)
	Upsert(ctx context.Context, rec *models.RegistrationRecord) (*models.RegistrationRecord, error)
}
