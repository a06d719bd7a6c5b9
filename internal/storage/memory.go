package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

type memoryStore struct {
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory builds an in-process store. State is lost on exit, which is fine
// for tests and for the memory backend where durability is not wanted.
func NewMemory(logger *slog.Logger) Store {
	return &memoryStore{logger: logger, entries: make(map[string][]byte)}
}

func (s *memoryStore) Set(_ context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("store set failed", "key", key, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = raw
}

func (s *memoryStore) Get(_ context.Context, key string, out any) bool {
	s.mu.RLock()
	raw, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("store entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *memoryStore) Remove(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *memoryStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]byte)
}
