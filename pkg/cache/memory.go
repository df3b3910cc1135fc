package cache

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// Cache is a bounded in-memory TTL cache with least-recently-accessed eviction.
// It is safe for concurrent use.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	config  Config
	clock   clock.Clock
	logger  zerolog.Logger
}

// Option customizes a Cache.
type Option func(*options)

type options struct {
	clock  clock.Clock
	logger zerolog.Logger
}

// WithClock sets the time source (default: wall clock).
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLogger sets the logger used for eviction and expiry debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a new cache. Returns ErrInvalidConfig for a non-positive TTL or MaxSize.
func New[V any](cfg Config, opts ...Option) (*Cache[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		clock:  clock.New(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[V]{
		entries: make(map[string]*entry[V]),
		config:  cfg,
		clock:   o.clock,
		logger:  o.logger,
	}, nil
}

// Set stores value under key. It is a no-op while caching is disabled.
// Inserting a new key into a full cache evicts exactly one entry first.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.config.Enabled {
		return
	}

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.config.MaxSize {
			c.evictLRU()
		}
		CacheEntries.Inc()
	}

	now := c.clock.Now()
	c.entries[key] = &entry[V]{
		data:         value,
		expiresAt:    now.Add(c.config.TTL),
		lastAccessed: now,
	}
}

// Get returns the value stored under key.
// Stale entries are deleted and reported as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.lookup(key)
	if !ok {
		CacheMisses.Inc()
		return zero, false
	}

	e.lastAccessed = c.clock.Now()
	CacheHits.Inc()
	return e.data, true
}

// Has reports whether key holds a valid entry.
// Like Get it deletes stale entries, but it does not count as an access.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.lookup(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.remove(key)
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	CacheEntries.Sub(float64(len(c.entries)))
	c.entries = make(map[string]*entry[V])
}

// Len returns the number of stored entries, including expired entries that
// have not been observed yet.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Enabled reports whether caching is on.
func (c *Cache[V]) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.config.Enabled
}

// SetEnabled turns caching on or off. Stored entries are kept but are not
// visible while caching is off.
func (c *Cache[V]) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.config.Enabled = enabled
}

// Config returns the active configuration.
func (c *Cache[V]) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.config
}

// lookup returns the live entry for key, deleting it if stale.
// Caller must hold c.mu.
func (c *Cache[V]) lookup(key string) (*entry[V], bool) {
	if !c.config.Enabled {
		return nil, false
	}

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if e.expired(c.clock.Now()) {
		c.remove(key)
		CacheExpirations.Inc()
		c.logger.Debug().Str("key", key).Msg("Cache entry expired")
		return nil, false
	}

	return e, true
}

// remove deletes key. Caller must hold c.mu.
func (c *Cache[V]) remove(key string) bool {
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	CacheEntries.Dec()
	return true
}

// evictLRU removes the entry with the oldest lastAccessed.
// Caller must hold c.mu.
func (c *Cache[V]) evictLRU() {
	var (
		oldestKey string
		oldest    *entry[V]
	)

	for key, e := range c.entries {
		if oldest == nil || e.lastAccessed.Before(oldest.lastAccessed) {
			oldestKey = key
			oldest = e
		}
	}

	if oldest == nil {
		return
	}

	c.remove(oldestKey)
	CacheEvictions.Inc()
	c.logger.Debug().
		Str("key", oldestKey).
		Time("last_accessed", oldest.lastAccessed).
		Dur("ttl", oldest.ttl(c.clock.Now())).
		Msg("Evicted least recently accessed cache entry")
}
