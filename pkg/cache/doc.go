// Package cache provides the in-memory response cache used by the DexPaprika client.
//
// The cache is a bounded key/value store with two policies:
//
// - Per-entry absolute expiration (TTL), discovered lazily on Get/Has
// - Least-recently-accessed eviction when a new key is inserted at capacity
//
// Entries never outlive the process and are never shared between clients.
//
// # Basic Usage
//
//	c, err := cache.New[json.RawMessage](cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	key := cache.CacheKey{
//		Endpoint: "/networks/ethereum/pools",
//		Params:   map[string]any{"page": 0, "limit": 10},
//	}
//
//	if data, ok := c.Get(key.String()); ok {
//		// Cache hit
//	}
//
//	c.Set(key.String(), payload)
//
// # Expiration
//
// There is no background sweep. A stale entry is removed by the first Get or
// Has that observes it, so Len counts stored entries, not live ones.
//
// # Eviction
//
// Set on a full cache with a new key removes exactly one entry: the one with
// the oldest last-access time. Ties are broken by map iteration order. The
// scan is O(n), which is fine for the default size of 1000 entries.
//
// # Metrics
//
// The cache exports Prometheus metrics:
//
//   - dexpaprika_cache_hits_total - Cache hits
//   - dexpaprika_cache_misses_total - Cache misses
//   - dexpaprika_cache_evictions_total - LRU evictions
//   - dexpaprika_cache_expirations_total - Stale entries removed on access
//   - dexpaprika_cache_entries - Stored entries across all caches
package cache
