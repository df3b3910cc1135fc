// Package client provides the core DexPaprika HTTP client with response
// caching, retries, and typed error classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dexpaprika/dexpaprika-go/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dexpaprika_requests_total",
		Help: "Total DexPaprika requests by method, endpoint and result",
	}, []string{"method", "endpoint", "result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dexpaprika_request_duration_seconds",
		Help:    "DexPaprika request duration in seconds by method, including retries",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dexpaprika_errors_total",
		Help: "Total classified DexPaprika errors by kind",
	}, []string{"kind"})
)

const (
	// DefaultBaseURL is the public DexPaprika API.
	DefaultBaseURL = "https://api.dexpaprika.com"

	// DefaultUserAgent identifies this SDK.
	DefaultUserAgent = "DexPaprika-SDK-Go/0.1.0"
)

// Requester is the request surface used by the per-resource API services.
type Requester interface {
	Get(ctx context.Context, path string, params Params) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any, params Params) (json.RawMessage, error)
}

// Client is the main DexPaprika client.
// A Client owns its cache and retry configuration and is safe for concurrent use.
type Client struct {
	baseURL   string
	transport Transport
	cache     *cache.Cache[json.RawMessage]
	retry     RetryConfig
	sleep     sleeper
	logger    zerolog.Logger
}

// Config holds the client configuration.
// It is read once by New; later changes have no effect on the client.
type Config struct {
	// BaseURL of the API, without trailing slash
	BaseURL string `yaml:"base_url"`

	// UserAgent header sent with every request
	UserAgent string `yaml:"user_agent"`

	// Retry overrides merged over DefaultRetryConfig
	Retry RetryOverrides `yaml:"retry"`

	// Cache overrides merged over cache.DefaultConfig
	Cache cache.Overrides `yaml:"cache"`

	// HTTPClient used by the default transport (optional)
	HTTPClient *http.Client `yaml:"-"`

	// Transport replaces the default HTTP transport (optional)
	Transport Transport `yaml:"-"`

	// Clock drives cache expiry and retry delays (default: wall clock)
	Clock clock.Clock `yaml:"-"`

	// Logger (default: global logger with component=dexpaprika-client)
	Logger *zerolog.Logger `yaml:"-"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
	}
}

// New creates a new DexPaprika client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("%w: user-agent is required", ErrInvalidConfig)
	}

	retryCfg := DefaultRetryConfig().Merge(cfg.Retry)
	if err := retryCfg.Validate(); err != nil {
		return nil, err
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	logger := log.With().Str("component", "dexpaprika-client").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	responseCache, err := cache.New[json.RawMessage](
		cache.DefaultConfig().Merge(cfg.Cache),
		cache.WithClock(clk),
		cache.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewHTTPTransport(cfg.HTTPClient, cfg.UserAgent)
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		transport: transport,
		cache:     responseCache,
		retry:     retryCfg,
		sleep:     clockSleeper(clk),
		logger:    logger,
	}, nil
}

// Get performs a cached GET request and returns the raw JSON payload.
//
// A cache hit returns without any network activity. On a miss the request is
// retried per the retry configuration and a successful payload is cached.
// Failures are returned as classified *Error values; the cache is left untouched.
func (c *Client) Get(ctx context.Context, path string, params Params) (json.RawMessage, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(http.MethodGet).Observe(time.Since(startTime).Seconds())
	}()

	cacheKey := cache.CacheKey{Endpoint: path, Params: params}.String()

	if data, ok := c.cache.Get(cacheKey); ok {
		c.logger.Debug().Str("endpoint", path).Bool("cache_hit", true).Msg("Serving from cache")
		requestsTotal.WithLabelValues(http.MethodGet, path, "cache_hit").Inc()
		return slices.Clone(data), nil
	}

	c.logger.Debug().Str("endpoint", path).Bool("cache_hit", false).Msg("Executing DexPaprika request")

	data, err := retry(ctx, c.retry, c.sleep, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodGet, path, nil, params)
	})
	if err != nil {
		return nil, c.fail(http.MethodGet, path, params, err)
	}

	requestsTotal.WithLabelValues(http.MethodGet, path, "ok").Inc()
	c.cache.Set(cacheKey, slices.Clone(data))

	return data, nil
}

// Post performs an uncached POST request with retries.
// Nothing is read from or written to the cache.
func (c *Client) Post(ctx context.Context, path string, body any, params Params) (json.RawMessage, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(http.MethodPost).Observe(time.Since(startTime).Seconds())
	}()

	data, err := retry(ctx, c.retry, c.sleep, func(ctx context.Context) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPost, path, body, params)
	})
	if err != nil {
		return nil, c.fail(http.MethodPost, path, params, err)
	}

	requestsTotal.WithLabelValues(http.MethodPost, path, "ok").Inc()
	return data, nil
}

// do runs a single transport call.
func (c *Client) do(ctx context.Context, method, path string, body any, params Params) (json.RawMessage, error) {
	resp, err := c.transport.Do(ctx, Request{
		Method: method,
		URL:    c.baseURL + path,
		Params: params,
		Body:   body,
	})
	if err == nil && resp == nil {
		err = &HTTPError{Err: errors.New("transport returned no response")}
	}
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("endpoint", path).
			Str("method", method).
			Msg("Request attempt failed")
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}

// fail classifies a failure after retries and records it.
func (c *Client) fail(method, path string, params Params, err error) error {
	classified := Classify(err, path, params)

	e, ok := classified.(*Error)
	if !ok {
		return classified
	}

	errorsTotal.WithLabelValues(string(e.Kind)).Inc()
	requestsTotal.WithLabelValues(method, path, string(e.Kind)).Inc()

	c.logger.Warn().
		Str("endpoint", path).
		Str("method", method).
		Str("kind", string(e.Kind)).
		Int("status_code", e.StatusCode).
		Msg(e.Message)

	return e
}

// ClearCache removes all cached responses.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// CacheSize returns the number of stored cache entries.
func (c *Client) CacheSize() int {
	return c.cache.Len()
}

// IsCacheEnabled reports whether responses are cached.
func (c *Client) IsCacheEnabled() bool {
	return c.cache.Enabled()
}

// SetCacheEnabled turns response caching on or off.
func (c *Client) SetCacheEnabled(enabled bool) {
	c.cache.SetEnabled(enabled)
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RetryConfig returns a copy of the active retry configuration.
func (c *Client) RetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        c.retry.MaxRetries,
		Delays:            slices.Clone(c.retry.Delays),
		RetryableStatuses: slices.Clone(c.retry.RetryableStatuses),
	}
}

// Close releases idle connections held by the default transport.
func (c *Client) Close() error {
	if t, ok := c.transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// GetJSON performs a cached GET and decodes the payload into T.
func GetJSON[T any](ctx context.Context, r Requester, path string, params Params) (T, error) {
	var out T
	data, err := r.Get(ctx, path, params)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode %s response: %w", path, err)
	}
	return out, nil
}

// PostJSON performs an uncached POST and decodes the payload into T.
func PostJSON[T any](ctx context.Context, r Requester, path string, body any, params Params) (T, error) {
	var out T
	data, err := r.Post(ctx, path, body, params)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode %s response: %w", path, err)
	}
	return out, nil
}
