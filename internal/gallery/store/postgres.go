package store

import (
	"context"
	"database/sql"
	"fmt"

	"reunion/internal/gallery/models"
)

// PostgresStore persists gallery items in the gallery_items table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, item *models.GalleryItem) error {
	query := `
		INSERT INTO gallery_items (id, url, caption, uploaded_by, uploader_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		item.ID, item.URL, item.Caption, item.UploadedBy, item.UploaderName, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create gallery item: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.GalleryItem, error) {
	query := `
		SELECT id, url, caption, uploaded_by, uploader_name, created_at
		FROM gallery_items
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery items: %w", err)
	}
	defer rows.Close()

	var items []models.GalleryItem
	for rows.Next() {
		var item models.GalleryItem
		if err := rows.Scan(&item.ID, &item.URL, &item.Caption, &item.UploadedBy, &item.UploaderName, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gallery item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gallery items: %w", err)
	}
	return items, nil
}
