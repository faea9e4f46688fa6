// Package persist owns durable state: the snapshot store behind the game
// instances and the leaderboard rows. Backends are interchangeable behind
// the Store interface; a failing store never takes the game down.
package persist

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when no snapshot exists for the instance.
var ErrNotFound = errors.New("snapshot not found")

// ErrUnavailable is returned when the backend cannot be reached. Callers
// treat it as non-fatal: play continues, persistence resumes when the
// backend returns.
var ErrUnavailable = errors.New("store unavailable")

// Store persists one opaque snapshot record per instance.
type Store interface {
	Put(ctx context.Context, instanceID string, snapshot []byte) error
	Get(ctx context.Context, instanceID string) ([]byte, error)
	Delete(ctx context.Context, instanceID string) error
}

// MemoryStore is the in-process backend: the default for development and
// the reference implementation for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, instanceID string, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(snapshot))
	copy(cp, snapshot)
	s.data[instanceID] = cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, instanceID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.data[instanceID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(snap))
	copy(cp, snap)
	return cp, nil
}

func (s *MemoryStore) Delete(ctx context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, instanceID)
	return nil
}
