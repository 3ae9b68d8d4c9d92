package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"reunion/internal/identity/models"
	dErrors "reunion/pkg/domain-errors"
)

// PostgresStore persists users in PostgreSQL.
// Pure I/O; password hashing and validation live in the service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		// 23505 is unique_violation on the email constraint.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return dErrors.New(dErrors.CodeBadRequest, "an account with this email already exists")
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	var user models.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}
