// Package metrics provides the Prometheus registry and HTTP handler for the
// DexPaprika client. All metrics are defined in their respective packages
// (client, cache, pagination) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the DexPaprika client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer exposes the metrics registered on Registry.
var Gatherer = prometheus.DefaultGatherer

// Names lists every metric exported by the client packages.
var Names = []string{
	"dexpaprika_cache_hits_total",
	"dexpaprika_cache_misses_total",
	"dexpaprika_cache_evictions_total",
	"dexpaprika_cache_expirations_total",
	"dexpaprika_cache_entries",
	"dexpaprika_requests_total",
	"dexpaprika_request_duration_seconds",
	"dexpaprika_errors_total",
	"dexpaprika_retries_total",
	"dexpaprika_retry_backoff_seconds",
	"dexpaprika_retry_exhausted_total",
	"dexpaprika_pagination_pages_total",
}

// Handler serves all gathered metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - dexpaprika_cache_hits_total (Counter): Fresh entries served from cache
//   - dexpaprika_cache_misses_total (Counter): Lookups that found no fresh entry
//   - dexpaprika_cache_evictions_total (Counter): Least-recently-accessed evictions
//   - dexpaprika_cache_expirations_total (Counter): Stale entries removed on access
//   - dexpaprika_cache_entries (Gauge): Stored entries across all caches
//
// Request Metrics (pkg/client):
//   - dexpaprika_requests_total{method, endpoint, result} (Counter): Requests by outcome
//     (ok, cache_hit, or the error kind)
//   - dexpaprika_request_duration_seconds{method} (Histogram): Duration including retries
//   - dexpaprika_errors_total{kind} (Counter): Classified errors by kind
//     (transport, api, deprecated_endpoint, network_not_found, pool_not_found)
//
// Retry Metrics (pkg/client):
//   - dexpaprika_retries_total{reason} (Counter): Retry attempts by reason
//   - dexpaprika_retry_backoff_seconds{reason} (Histogram): Delay before each retry
//   - dexpaprika_retry_exhausted_total{reason} (Counter): Calls that used every retry
//
// Pagination Metrics (pkg/pagination):
//   - dexpaprika_pagination_pages_total{result} (Counter): Pages fetched by the batch fetcher
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(dexpaprika_cache_hits_total[5m])) /
//   (sum(rate(dexpaprika_cache_hits_total[5m])) + sum(rate(dexpaprika_cache_misses_total[5m])))
//
//   # Rate Limited Retries
//   rate(dexpaprika_retries_total{reason="429"}[5m])
//
//   # Classified Error Rate
//   sum by (kind) (rate(dexpaprika_errors_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(dexpaprika_request_duration_seconds_bucket[5m]))
