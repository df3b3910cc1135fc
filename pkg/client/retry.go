package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dexpaprika_retries_total",
		Help: "Total number of retry attempts by failure reason",
	}, []string{"reason"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dexpaprika_retry_backoff_seconds",
		Help:    "Delay before a retry attempt by failure reason",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"reason"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dexpaprika_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by failure reason",
	}, []string{"reason"})
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int

	// Delays is the wait before each retry. Retry n waits Delays[n-1];
	// the last delay repeats once the sequence runs out.
	Delays []time.Duration

	// RetryableStatuses are the HTTP status codes worth retrying.
	// Failures without a status are always retried.
	RetryableStatuses []int
}

// RetryOverrides are caller-supplied retry settings merged over DefaultRetryConfig.
// Nil/empty fields keep the default.
type RetryOverrides struct {
	MaxRetries        *int            `yaml:"max_retries"`
	Delays            []time.Duration `yaml:"delays"`
	RetryableStatuses []int           `yaml:"retryable_statuses"`
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 4,
		Delays: []time.Duration{
			100 * time.Millisecond,
			500 * time.Millisecond,
			1 * time.Second,
			5 * time.Second,
		},
		RetryableStatuses: []int{408, 429, 500, 502, 503, 504},
	}
}

// Merge returns cfg with every set field of o applied.
func (cfg RetryConfig) Merge(o RetryOverrides) RetryConfig {
	if o.MaxRetries != nil {
		cfg.MaxRetries = *o.MaxRetries
	}
	if len(o.Delays) > 0 {
		cfg.Delays = append([]time.Duration(nil), o.Delays...)
	}
	if o.RetryableStatuses != nil {
		cfg.RetryableStatuses = append([]int(nil), o.RetryableStatuses...)
	}
	return cfg
}

// Validate rejects negative retry counts, an empty delay sequence and negative delays.
func (cfg RetryConfig) Validate() error {
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must be >= 0 (got %d)", ErrInvalidConfig, cfg.MaxRetries)
	}
	if len(cfg.Delays) == 0 {
		return fmt.Errorf("%w: delay sequence must not be empty", ErrInvalidConfig)
	}
	for i, d := range cfg.Delays {
		if d < 0 {
			return fmt.Errorf("%w: delay %d is negative (%v)", ErrInvalidConfig, i, d)
		}
	}
	return nil
}

// delayFor returns the wait before the given attempt (attempt >= 1).
func (cfg RetryConfig) delayFor(attempt int) time.Duration {
	idx := attempt - 1
	if idx >= len(cfg.Delays) {
		idx = len(cfg.Delays) - 1
	}
	return cfg.Delays[idx]
}

// isRetryable reports whether a status code may be retried.
func (cfg RetryConfig) isRetryable(status int) bool {
	return lo.Contains(cfg.RetryableStatuses, status)
}

// StatusCoder is implemented by failures that carry an HTTP status.
// A zero status means the failure has no response.
type StatusCoder interface {
	HTTPStatus() int
}

// statusOf extracts the HTTP status carried by err, if any.
func statusOf(err error) (int, bool) {
	var sc StatusCoder
	if errors.As(err, &sc) && sc.HTTPStatus() != 0 {
		return sc.HTTPStatus(), true
	}
	return 0, false
}

// failureReason is the metrics label for a failed attempt.
func failureReason(err error) string {
	if status, ok := statusOf(err); ok {
		return strconv.Itoa(status)
	}
	return "network"
}

// sleeper waits for d or until ctx is done.
type sleeper func(ctx context.Context, d time.Duration) error

// clockSleeper waits on a timer from clk.
func clockSleeper(clk clock.Clock) sleeper {
	return func(ctx context.Context, d time.Duration) error {
		if d <= 0 {
			return nil
		}
		timer := clk.Timer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrContextCancelled, ctx.Err())
		case <-timer.C:
			return nil
		}
	}
}

// Retry runs op up to cfg.MaxRetries+1 times.
//
// A failure whose status is not in cfg.RetryableStatuses is returned at once.
// Failures without a status are retried. When attempts run out the last
// failure is returned unchanged.
func Retry[T any](ctx context.Context, cfg RetryConfig, op func(ctx context.Context) (T, error)) (T, error) {
	return retry(ctx, cfg, clockSleeper(clock.New()), op)
}

func retry[T any](ctx context.Context, cfg RetryConfig, sleep sleeper, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := cfg.Validate(); err != nil {
		return zero, err
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := cfg.delayFor(attempt)
			reason := failureReason(lastErr)

			retriesTotal.WithLabelValues(reason).Inc()
			retryBackoffSeconds.WithLabelValues(reason).Observe(delay.Seconds())

			log.Debug().
				Str("reason", reason).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying request after delay")

			if err := sleep(ctx, delay); err != nil {
				log.Warn().
					Str("reason", reason).
					Int("attempt", attempt).
					Msg("Context cancelled during retry delay")
				return zero, err
			}
		}

		result, err := op(ctx)
		if err == nil {
			if attempt > 0 {
				log.Info().
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return result, nil
		}

		lastErr = err

		// Non-retryable status codes short-circuit the loop.
		if status, ok := statusOf(err); ok && !cfg.isRetryable(status) {
			return zero, err
		}

		if attempt == cfg.MaxRetries {
			reason := failureReason(err)
			retryExhaustedTotal.WithLabelValues(reason).Inc()
			log.Warn().
				Str("reason", reason).
				Int("max_retries", cfg.MaxRetries).
				Msg("Retry attempts exhausted")
			return zero, err
		}
	}

	return zero, lastErr
}
