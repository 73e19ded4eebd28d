package repository

import (
	"context"
	"sync"
)

// MemoryBackend keeps interests in process memory. It is the default backend
// and the one used in tests.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]string
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]string)}
}

// Get implements Backend.Get.
func (m *MemoryBackend) Get(_ context.Context, id string) ([]string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[id]
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), v...), true, nil
}

// Set implements Backend.Set.
func (m *MemoryBackend) Set(_ context.Context, id string, interests []string) error {
	if id == "" {
		return ErrEmptyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = append(make([]string, 0, len(interests)), interests...)
	return nil
}

// Ping implements Backend.Ping.
func (m *MemoryBackend) Ping(context.Context) error { return nil }

// Close implements Backend.Close.
func (m *MemoryBackend) Close() error { return nil }

// Name implements Backend.Name.
func (m *MemoryBackend) Name() string { return BackendMemory }

// Len returns the number of stored records.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
