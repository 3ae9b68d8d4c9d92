// Package objectstore abstracts the durable object storage collaborator.
// Artifacts are write-once: paths embed a generation timestamp, and old
// objects are never overwritten or deleted by this system.
package objectstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// ObjectMeta describes a stored object for listings.
type ObjectMeta struct {
	Path         string
	URL          string
	Size         int64
	LastModified time.Time
}

// Store is the object storage capability consumed by the credential
// generator and the gallery.
type Store interface {
	// Put writes an object. A failed write must surface an error; callers
	// abort rather than reference an object that does not exist.
	Put(ctx context.Context, path string, data []byte, contentType string) error

	// PublicURL returns the stable public reference for a stored path.
	PublicURL(path string) string

	// List returns objects under a prefix, newest first.
	List(ctx context.Context, prefix string) ([]ObjectMeta, error)
}

// InMemoryStore keeps objects in a map. Used by tests and by development mode
// when no storage endpoint is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
	baseURL string
}

type memObject struct {
	data        []byte
	contentType string
	storedAt    time.Time
}

// NewInMemoryStore creates an empty in-memory object store. baseURL prefixes
// the public URLs it hands out.
func NewInMemoryStore(baseURL string) *InMemoryStore {
	return &InMemoryStore{
		objects: make(map[string]memObject),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *InMemoryStore) Put(_ context.Context, path string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = memObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		storedAt:    time.Now(),
	}
	return nil
}

func (s *InMemoryStore) PublicURL(path string) string {
	return s.baseURL + "/" + path
}

func (s *InMemoryStore) List(_ context.Context, prefix string) ([]ObjectMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var metas []ObjectMeta
	for path, obj := range s.objects {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		metas = append(metas, ObjectMeta{
			Path:         path,
			URL:          s.PublicURL(path),
			Size:         int64(len(obj.data)),
			LastModified: obj.storedAt,
		})
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].LastModified.After(metas[j].LastModified)
	})
	return metas, nil
}

// Get returns a stored object's bytes. Test helper.
func (s *InMemoryStore) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, false
	}
	return obj.data, true
}

// Len returns the number of stored objects. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
