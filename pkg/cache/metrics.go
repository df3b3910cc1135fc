package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dexpaprika_cache_hits_total",
			Help: "Total number of DexPaprika response cache hits",
		},
	)

	// CacheMisses tracks cache misses, including stale entries
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dexpaprika_cache_misses_total",
			Help: "Total number of DexPaprika response cache misses",
		},
	)

	// CacheEvictions tracks entries removed to make room for new keys
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dexpaprika_cache_evictions_total",
			Help: "Total number of least-recently-accessed evictions",
		},
	)

	// CacheExpirations tracks stale entries removed on access
	CacheExpirations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dexpaprika_cache_expirations_total",
			Help: "Total number of expired entries removed on access",
		},
	)

	// CacheEntries tracks stored entries across all cache instances
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dexpaprika_cache_entries",
			Help: "Current number of stored cache entries",
		},
	)
)
