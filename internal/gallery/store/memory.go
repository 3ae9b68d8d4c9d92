package store

import (
	"context"
	"sort"
	"sync"

	"reunion/internal/gallery/models"
)

// InMemoryStore keeps gallery items in a slice.
type InMemoryStore struct {
	mu    sync.RWMutex
	items []models.GalleryItem
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(_ context.Context, item *models.GalleryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, *item)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]models.GalleryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := append([]models.GalleryItem(nil), s.items...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
