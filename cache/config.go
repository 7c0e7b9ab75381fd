package cache

import (
	"time"

	"github.com/goliatone/go-category-cache/internal/cacheinfra"
)

// DefaultTTL is how long a fetched category list is served before it is
// considered stale.
const DefaultTTL = 5 * time.Minute

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultConfig returns the configuration used for the category list:
// a five minute TTL.
func DefaultConfig() Config {
	return Config{
		Capacity:           64,
		NumShards:          4,
		TTL:                DefaultTTL,
		EvictionPercentage: 10,
	}
}

// WithTTL returns a copy of c using the given TTL.
func (c Config) WithTTL(ttl time.Duration) Config {
	c.TTL = ttl
	return c
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewCacheService constructs the sturdyc backed cache service.
func NewCacheService(cfg Config) (CacheService, error) {
	svc, err := cacheinfra.NewSturdycService(cfg.toInternal())
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
