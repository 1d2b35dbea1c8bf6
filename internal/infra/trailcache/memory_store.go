package trailcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/hiking-guide/internal/domain/safetyform"
	"github.com/yanqian/hiking-guide/internal/domain/trail"
)

// MemoryStore keeps the trail listing in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	trails    []trail.Trail
	present   bool
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Get implements safetyform.TrailStore.
func (s *MemoryStore) Get(_ context.Context) ([]trail.Trail, bool, error) {
	s.mu.RLock()
	present, expiresAt := s.present, s.expiresAt
	trails := append([]trail.Trail(nil), s.trails...)
	s.mu.RUnlock()
	if !present {
		return nil, false, nil
	}
	if !expiresAt.IsZero() && !expiresAt.After(s.now()) {
		s.mu.Lock()
		s.trails, s.present = nil, false
		s.mu.Unlock()
		return nil, false, nil
	}
	return trails, true, nil
}

// Save replaces the cached listing. A non-positive ttl never expires.
func (s *MemoryStore) Save(_ context.Context, trails []trail.Trail, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trails = append([]trail.Trail(nil), trails...)
	s.present = true
	s.expiresAt = time.Time{}
	if ttl > 0 {
		s.expiresAt = s.now().Add(ttl)
	}
	return nil
}

var _ safetyform.TrailStore = (*MemoryStore)(nil)
