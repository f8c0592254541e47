package db

import (
	"context"
	"time"
)

// Store is the key-value database facade.
type Store interface {
	Pinger
	KVStore
	Scanner
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides read access to string values.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet fetches many keys in one round-trip. A missing key yields a nil
	// entry at its position.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
}

// Scanner iterates the keyspace.
type Scanner interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
}
