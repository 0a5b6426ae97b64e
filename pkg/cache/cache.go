// Package cache stores rendered artifacts so unchanged stacks are not
// recompiled.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// Keys come from a [Keyer], which hashes everything that influences the
// artifact bytes. [NewScopedKeyer] prefixes keys to separate namespaces.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long artifacts stay cached.
const DefaultTTL = 30 * 24 * time.Hour

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the backend.
	Close() error
}

// Clearer is implemented by backends that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}
