package session

import (
	"context"
	"sync"
	"time"
)

// memoryStore implements Store using an in-memory map. The design assumes a
// single process owns all sessions; durability is a deployment concern.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func newMemoryStore(now func() time.Time) *memoryStore {
	if now == nil {
		now = time.Now
	}
	return &memoryStore{sessions: make(map[string]*Session), now: now}
}

// Create implements Store.
func (s *memoryStore) Create(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[sess.ID]; exists {
		return ErrExists
	}
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Get implements Store.
func (s *memoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, exists := s.sessions[id]
	if !exists {
		return nil, nil
	}
	return sess.Clone(), nil
}

// Put implements Store.
func (s *memoryStore) Put(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[sess.ID]; !exists {
		return ErrNotFound
	}
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Delete implements Store.
func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// DeleteIdle implements Store.
func (s *memoryStore) DeleteIdle(ctx context.Context, maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > maxAge {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Close implements Store.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	return nil
}
