package cache

import (
	"time"
)

// entry is a cached value with its expiry and access bookkeeping.
type entry[V any] struct {
	data         V
	expiresAt    time.Time
	lastAccessed time.Time
}

// expired reports whether the entry is stale at now.
// An entry is still valid at exactly expiresAt.
func (e *entry[V]) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// ttl returns the time left until expiration, or 0 if already expired.
func (e *entry[V]) ttl(now time.Time) time.Duration {
	ttl := e.expiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
