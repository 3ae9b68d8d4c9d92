package store

import (
	"context"
	"database/sql"
	"fmt"

	"reunion/internal/registration/models"
)

// PostgresStore persists registrations in the registrations table. The
// UNIQUE constraint on principal_id plus ON CONFLICT ... DO UPDATE makes
// Upsert atomic under concurrent submissions.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByPrincipal(ctx context.Context, principalID string) (*models.RegistrationRecord, error) {
	query := `
		SELECT principal_id, name, email, phone, location, adults, kids,
		       friday_dinner, saturday_banquet, sunday_brunch, qr_code_url,
		       created_at, updated_at
		FROM registrations
		WHERE principal_id = $1`

	var rec models.RegistrationRecord
	var qrURL sql.NullString
	err := s.db.QueryRowContext(ctx, query, principalID).Scan(
		&rec.PrincipalID, &rec.Name, &rec.Email, &rec.Phone, &rec.Location,
		&rec.Adults, &rec.Kids,
		&rec.FridayDinner, &rec.SaturdayBanquet, &rec.SundayBrunch,
		&qrURL, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	rec.QRCodeURL = qrURL.String
	return &rec, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, rec *models.RegistrationRecord) (*models.RegistrationRecord, error) {
	query := `
		INSERT INTO registrations (
			principal_id, name, email, phone, location, adults, kids,
			friday_dinner, saturday_banquet, sunday_brunch, qr_code_url,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (principal_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			adults = EXCLUDED.adults,
			kids = EXCLUDED.kids,
			friday_dinner = EXCLUDED.friday_dinner,
			saturday_banquet = EXCLUDED.saturday_banquet,
			sunday_brunch = EXCLUDED.sunday_brunch,
			qr_code_url = EXCLUDED.qr_code_url,
			updated_at = NOW()
		RETURNING principal_id, name, email, phone, location, adults, kids,
			friday_dinner, saturday_banquet, sunday_brunch, qr_code_url,
			created_at, updated_at`

	var qrURL sql.NullString
	if rec.QRCodeURL != "" {
		qrURL = sql.NullString{String: rec.QRCodeURL, Valid: true}
	}

	var stored models.RegistrationRecord
	var storedURL sql.NullString
	err := s.db.QueryRowContext(ctx, query,
		rec.PrincipalID, rec.Name, rec.Email, rec.Phone, rec.Location,
		rec.Adults, rec.Kids,
		rec.FridayDinner, rec.SaturdayBanquet, rec.SundayBrunch,
		qrURL,
	).Scan(
		&stored.PrincipalID, &stored.Name, &stored.Email, &stored.Phone, &stored.Location,
		&stored.Adults, &stored.Kids,
		&stored.FridayDinner, &stored.SaturdayBanquet, &stored.SundayBrunch,
		&storedURL, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert registration: %w", err)
	}
	stored.QRCodeURL = storedURL.String
	return &stored, nil
}
