// Package service implements the shared photo gallery: authenticated uploads
// into object storage plus a chronological listing.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"reunion/internal/audit"
	"reunion/internal/gallery/models"
	"reunion/internal/gallery/store"
	"reunion/internal/platform/objectstore"
	dErrors "reunion/pkg/domain-errors"
	authmw "reunion/pkg/platform/middleware/auth"
)

// MaxUploadBytes bounds a single photo upload.
const MaxUploadBytes = 10 << 20

// Service handles gallery uploads and listings.
type Service struct {
	items     store.ItemStore
	storage   objectstore.Store
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

func New(items store.ItemStore, storage objectstore.Store, opts ...Option) (*Service, error) {
	if items == nil {
		return nil, errors.New("item store is required")
	}
	if storage == nil {
		return nil, errors.New("object storage is required")
	}

	svc := &Service{items: items, storage: storage}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Upload stores the image bytes in object storage under a fresh UUID path and
// records the item. Only image content types are accepted; the extension is
// carried over from the original filename.
func (s *Service) Upload(ctx context.Context, principal authmw.Principal, filename, caption string, data []byte) (*models.UploadResponse, error) {
	if len(data) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "file is empty")
	}
	if len(data) > MaxUploadBytes {
		return nil, dErrors.New(dErrors.CodeBadRequest, "file exceeds the upload size limit")
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, dErrors.New(dErrors.CodeBadRequest, "only image uploads are accepted")
	}

	id := uuid.NewString()
	objectPath := "gallery/" + id + strings.ToLower(path.Ext(filename))
	if err := s.storage.Put(ctx, objectPath, data, contentType); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store photo")
	}

	item := &models.GalleryItem{
		ID:           id,
		URL:          s.storage.PublicURL(objectPath),
		Caption:      strings.TrimSpace(caption),
		UploadedBy:   principal.UserID,
		UploaderName: principal.Email,
		CreatedAt:    time.Now(),
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record photo")
	}

	audit.Log(ctx, s.logger, s.publisher, audit.Event{
		Action:    audit.ActionFileUploaded,
		Principal: principal.UserID,
		Detail:    objectPath,
	})

	return &models.UploadResponse{ID: item.ID, URL: item.URL}, nil
}

// List returns every gallery item, newest first.
func (s *Service) List(ctx context.Context) ([]models.GalleryItem, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list photos")
	}
	if items == nil {
		items = []models.GalleryItem{}
	}
	return items, nil
}
