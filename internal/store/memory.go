package store

import "sync"

// MemoryStore is a concurrency-safe in-memory Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Read returns the content of key, or ErrNotFound.
func (s *MemoryStore) Read(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return content, nil
}

// Write stores content for key.
func (s *MemoryStore) Write(key, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = content
	return nil
}

// Len returns the number of entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
