package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
)

type fileStore struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]json.RawMessage
}

// NewFile builds a store persisted as a single JSON file at path. The file is
// read once at construction; an unreadable or corrupt file starts empty
// rather than failing, since the cache is advisory.
func NewFile(path string, logger *slog.Logger) Store {
	s := &fileStore{path: path, logger: logger, entries: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("store file unreadable, starting empty", "path", path, "error", err)
		}
		return s
	}
	if err := json.Unmarshal(raw, &s.entries); err != nil {
		logger.Warn("store file corrupt, starting empty", "path", path, "error", err)
		s.entries = make(map[string]json.RawMessage)
	}
	return s
}

func (s *fileStore) Set(_ context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("store set failed", "key", key, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = raw
	s.flush()
}

func (s *fileStore) Get(_ context.Context, key string, out any) bool {
	s.mu.Lock()
	raw, ok := s.entries[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("store entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *fileStore) Remove(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	s.flush()
}

func (s *fileStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]json.RawMessage)
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("store clear failed", "path", s.path, "error", err)
	}
}

// flush rewrites the whole file. Caller holds the lock.
func (s *fileStore) flush() {
	raw, err := json.Marshal(s.entries)
	if err != nil {
		s.logger.Warn("store encode failed", "path", s.path, "error", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		s.logger.Warn("store write failed", "path", s.path, "error", err)
	}
}
