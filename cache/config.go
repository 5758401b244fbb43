package cache

import (
	"time"

	"github.com/goliatone/go-storefront/internal/cacheinfra"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Capacity           int           `envconfig:"CAPACITY" default:"10000"`
	NumShards          int           `envconfig:"SHARDS" default:"256"`
	TTL                time.Duration `envconfig:"TTL" default:"5m"`
	EvictionPercentage int           `envconfig:"EVICTION_PERCENTAGE" default:"10"`
	EvictionInterval   time.Duration `envconfig:"EVICTION_INTERVAL"`
}

// ServiceOption customizes the service built by NewCacheService.
type ServiceOption = cacheinfra.Option

// WithObserver reports hits, misses, invalidations and cancellations to o.
func WithObserver(o Observer) ServiceOption {
	return cacheinfra.WithObserver(o)
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewCacheService constructs the default cache service implementation using the provided configuration.
func NewCacheService(cfg Config, opts ...ServiceOption) (CacheService, error) {
	svc, err := cacheinfra.NewSturdycService(cfg.toInternal(), opts...)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
