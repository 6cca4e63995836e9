package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	state     ConversationState
	expiresAt time.Time
}

// InMemorySessionStore is the fallback when redis is offline, and the store
// used in tests. Expired entries are reaped lazily on access.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]memoryEntry),
	}
}

func (s *InMemorySessionStore) Load(ctx context.Context, userId string) (ConversationState, bool, error) {
	s.mu.RLock()
	entry, ok := s.sessions[userId]
	s.mu.RUnlock()

	if !ok {
		return ConversationState{}, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, userId)
		s.mu.Unlock()
		return ConversationState{}, false, nil
	}
	return entry.state, true, nil
}

func (s *InMemorySessionStore) Save(ctx context.Context, state ConversationState, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.UserId] = memoryEntry{
		state:     state,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *InMemorySessionStore) Delete(ctx context.Context, userId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userId)
	return nil
}
