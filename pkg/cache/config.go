package cache

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig indicates a cache configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid cache config")

// Config holds the cache configuration.
type Config struct {
	// TTL is how long an entry stays valid after Set.
	TTL time.Duration `yaml:"ttl"`

	// MaxSize is the maximum number of stored entries.
	MaxSize int `yaml:"max_size"`

	// Enabled turns caching on or off.
	Enabled bool `yaml:"enabled"`
}

// Overrides are caller-supplied cache settings merged over DefaultConfig.
// Zero values mean "use the default".
type Overrides struct {
	TTL     time.Duration `yaml:"ttl"`
	MaxSize int           `yaml:"max_size"`
	Enabled *bool         `yaml:"enabled"`
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		TTL:     5 * time.Minute,
		MaxSize: 1000,
		Enabled: true,
	}
}

// Merge returns cfg with every set field of o applied.
func (cfg Config) Merge(o Overrides) Config {
	if o.TTL != 0 {
		cfg.TTL = o.TTL
	}
	if o.MaxSize != 0 {
		cfg.MaxSize = o.MaxSize
	}
	if o.Enabled != nil {
		cfg.Enabled = *o.Enabled
	}
	return cfg
}

// Validate checks that TTL and MaxSize are positive.
func (cfg Config) Validate() error {
	if cfg.TTL <= 0 {
		return fmt.Errorf("%w: ttl must be > 0 (got %v)", ErrInvalidConfig, cfg.TTL)
	}
	if cfg.MaxSize <= 0 {
		return fmt.Errorf("%w: max_size must be > 0 (got %d)", ErrInvalidConfig, cfg.MaxSize)
	}
	return nil
}
