package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Store keeps session contexts by ID.
type Store interface {
	Save(ctx context.Context, c Context, ttl time.Duration) error
	Get(ctx context.Context, id string) (Context, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	ctx       Context
	expiresAt time.Time
}

// MemoryStore is a process-local Store; entries expire lazily on lookup.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, c Context, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[c.ID] = memoryEntry{ctx: c, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Context, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Context{}, ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return Context{}, ErrNotFound
	}
	return e.ctx, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
