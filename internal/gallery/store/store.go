// Package store persists gallery item metadata. The image bytes themselves
// live in object storage; the store only tracks what was uploaded and by
// whom.
package store

import (
	"context"

	"reunion/internal/gallery/models"
)

// ItemStore is the persistence contract for gallery items. List returns
// items newest first.
type ItemStore interface {
	Create(ctx context.Context, item *models.GalleryItem) error
	List(ctx context.Context) ([]models.GalleryItem, error)
}
