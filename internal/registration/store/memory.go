package store

import (
	"context"
	"sync"
	"time"

	"reunion/internal/registration/models"
)

// InMemoryStore keeps registrations in a map keyed by principal ID.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.RegistrationRecord
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*models.RegistrationRecord),
		now:     time.Now,
	}
}

func (s *InMemoryStore) FindByPrincipal(_ context.Context, principalID string) (*models.RegistrationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[principalID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, rec *models.RegistrationRecord) (*models.RegistrationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stored := *rec
	if prev, ok := s.records[rec.PrincipalID]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	s.records[rec.PrincipalID] = &stored
	cp := stored
	return &cp, nil
}

// Len reports the number of stored records. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
