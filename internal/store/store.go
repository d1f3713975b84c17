// Package store abstracts the key/value backend used for rate-limit bookkeeping.
package store

import (
	"context"
	"time"
)

// Store is the minimal contract the admission pipeline needs: plain reads and
// TTL-bounded writes against an eventually-consistent key/value backend.
// No compare-and-swap or multi-key transactions are assumed.
type Store interface {
	// Get returns the value for key, or ok=false when the key is absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Put writes value under key with the given TTL, overwriting any previous value.
	Put(ctx context.Context, key string, value string, ttl time.Duration) error
	Close() error
}

// AtomicStore is an optional upgrade a backend may offer. When available, the
// pipeline uses it to close the read-then-write window on the claim record and
// the origin counter; with a plain Store those operations race under concurrent
// identical requests (a bounded, accepted cost).
type AtomicStore interface {
	Store
	// PutIfAbsent writes only when the key does not exist. Returns true when
	// this call created the entry.
	PutIfAbsent(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// Incr atomically increments the integer at key, creating it at 1 with the
	// given TTL on first use. Returns the post-increment value.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Del removes key. Only used to roll back a claim reservation whose
	// transfer failed; TTL expiry handles every other lifetime.
	Del(ctx context.Context, key string) error
}
