// Package storage provides the key-value backends submissions are kept in.
// Every backend offers single-key get and put-with-expiry; none offers
// transactions across keys.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or has expired.
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key-value store with optional per-key expiry.
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, replacing any previous value. A ttl of
	// zero means the key never expires.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
