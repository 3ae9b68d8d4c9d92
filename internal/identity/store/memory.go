package store

import (
	"context"
	"sync"

	"reunion/internal/identity/models"
	dErrors "reunion/pkg/domain-errors"
)

// InMemoryStore keeps users in a map keyed by email. Test double and
// development-mode store.
type InMemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]models.User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byEmail: make(map[string]models.User)}
}

func (s *InMemoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return dErrors.New(dErrors.CodeBadRequest, "an account with this email already exists")
	}
	s.byEmail[user.Email] = *user
	return nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.byEmail[email]; ok {
		u := user
		return &u, nil
	}
	return nil, nil
}
