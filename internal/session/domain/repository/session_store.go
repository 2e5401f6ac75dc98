package repository

import (
	"context"
	"time"
)

// SessionStore is a key-value store with per-key expiry. Values are opaque
// serialized session objects.
type SessionStore interface {
	// Set writes value under key and (re)starts its time to live.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns found=false, without error, for absent or expired keys.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Remove reports whether a live entry was deleted.
	Remove(ctx context.Context, key string) (removed bool, err error)
	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}
