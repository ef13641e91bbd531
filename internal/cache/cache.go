// Package cache provides the TTL store behind the data layer. Entries are
// whole values with an expiry timestamp; an expired entry reads as a miss
// and is replaced atomically by the next set.
package cache

import (
	"context"
	"time"
)

// Store is a key -> (value, expiry) map. Get reports a miss for absent or
// expired keys; Set replaces the entry as a whole.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
