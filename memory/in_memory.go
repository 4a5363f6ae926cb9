package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/hupe1980/alertmesh/core"
)

// Compile-time interface check.
var _ core.MemoryStore = (*InMemoryStore)(nil)

// InMemoryStore is a process-local working memory: a flat key/value map
// with last-write-wins semantics, no expiry, no persistence and no
// capacity bound.
//
// The mutex only keeps the map itself consistent under Go's concurrent HTTP
// server. Concurrent Remember calls on the same key still race and the last
// writer wins.
type InMemoryStore struct {
	mu    sync.RWMutex
	store map[string]any
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{store: make(map[string]any)}
}

// Remember stores value under key, overwriting any previous value.
func (m *InMemoryStore) Remember(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store[key] = value

	return nil
}

// Get returns the value stored under key.
func (m *InMemoryStore) Get(_ context.Context, key string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.store[key]

	return v, ok, nil
}

// Dump returns a shallow copy of the store.
func (m *InMemoryStore) Dump(_ context.Context) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return maps.Clone(m.store), nil
}
