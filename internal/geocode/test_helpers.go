package geocode

import (
	"context"
	"sync"

	"busmap.londonbus.dev/internal/models"
)

// memoryCache is an in-process Cache used by tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]models.Coordinate
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]models.Coordinate)}
}

func (m *memoryCache) Get(_ context.Context, query string) (models.Coordinate, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.entries[query]
	return c, ok, nil
}

func (m *memoryCache) Put(_ context.Context, query string, c models.Coordinate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[query] = c
	return nil
}

func (m *memoryCache) Close() error { return nil }
