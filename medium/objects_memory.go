package medium

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryObjects is an in-memory ObjectStore for testing.
// Thread-safe for concurrent reads and writes.
type MemoryObjects struct {
	mu      sync.RWMutex
	objects map[string][]byte
	gets    int
	puts    int
}

// NewMemoryObjects creates an empty in-memory object store.
func NewMemoryObjects() *MemoryObjects {
	return &MemoryObjects{
		objects: make(map[string][]byte),
	}
}

// Get returns a copy of the object stored under key.
func (m *MemoryObjects) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy to prevent external mutation
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// Put stores a copy of data under key.
func (m *MemoryObjects) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.puts++
	copied := make([]byte, len(data))
	copy(copied, data)
	m.objects[key] = copied
	return nil
}

// Delete removes an object. Deleting a missing key is not an error.
func (m *MemoryObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	return nil
}

// List returns all keys matching the prefix, sorted.
func (m *MemoryObjects) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Requests returns the number of Get and Put calls served.
func (m *MemoryObjects) Requests() (gets, puts int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets, m.puts
}
