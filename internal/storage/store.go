// Package storage provides the device-local key/value cache backing the
// session and loan state. It is advisory: callers never branch on a storage
// failure, so every implementation absorbs its own errors. Writes that fail
// are logged and dropped; missing or corrupt entries read as absent.
package storage

import "context"

// Well-known cache keys. Values are opaque JSON blobs to the store.
const (
	KeyToken    = "token"
	KeyUser     = "user"
	KeyLoans    = "loans"
	KeyLanguage = "language"
)

// Store is the persistence contract shared by all backends.
type Store interface {
	// Set serializes value as JSON and writes it under key. Failures are
	// logged, never returned.
	Set(ctx context.Context, key string, value any)
	// Get reads and deserializes the entry under key into out. It reports
	// false when the entry is absent or cannot be decoded.
	Get(ctx context.Context, key string, out any) bool
	// Remove deletes the entry under key, best effort.
	Remove(ctx context.Context, key string)
	// Clear deletes every entry owned by this store, best effort.
	Clear(ctx context.Context)
}
