package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/karent-api/internal/service/auth"
)

// MemorySessionStore implements auth.SessionStore with a map. Expiry is not
// simulated.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]int64

	// Err, when set, is returned by every method.
	Err error
}

var _ auth.SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]int64)}
}

// Track implements auth.SessionStore.
func (s *MemorySessionStore) Track(_ context.Context, tokenID string, userID int64, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sessions[tokenID] = userID
	return nil
}

// Active implements auth.SessionStore.
func (s *MemorySessionStore) Active(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.sessions[tokenID]
	return ok, nil
}

// Revoke implements auth.SessionStore.
func (s *MemorySessionStore) Revoke(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.sessions, tokenID)
	return nil
}

// Len returns the number of tracked sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
