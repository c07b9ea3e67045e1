package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a TTL map. It backs tests and local
// runs without Redis.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]memoryEntry
}

type memoryEntry struct {
	sess Session
	exp  time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Save(_ context.Context, sess *Session, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}

	cp := *sess
	cp.Flashes = append([]Flash(nil), sess.Flashes...)

	s.mu.Lock()
	s.m[sess.ID] = memoryEntry{sess: cp, exp: time.Now().Add(ttl)}
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	now := time.Now()

	s.mu.RLock()
	e, ok := s.m[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNoSession
	}

	if now.After(e.exp) {
		s.mu.Lock()
		delete(s.m, id)
		s.mu.Unlock()
		return nil, ErrNoSession
	}

	cp := e.sess
	cp.Flashes = append([]Flash(nil), e.sess.Flashes...)

	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()

	return nil
}
