package di

import (
	repository "github.com/goliatone/go-repository-bun"

	"github.com/goliatone/go-category-cache/cache"
	"github.com/goliatone/go-category-cache/hierarchy"
	"github.com/goliatone/go-category-cache/repositorycache"
	"github.com/goliatone/go-category-cache/store"
)

// Container wires the category components around one shared cache.
// It owns a single Store; every reader and every write path obtained from
// the container goes through it.
type Container struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	config        cache.Config
	store         *store.Store
	hierarchy     *hierarchy.Service
}

// NewContainer creates a container reading categories from source.
// Extra store options (logger, registerer, error handler) are applied after
// the cache wiring.
func NewContainer(source store.Source, config cache.Config, opts ...store.Option) (*Container, error) {
	cacheService, err := cache.NewCacheService(config)
	if err != nil {
		return nil, err
	}

	keySerializer := cache.NewDefaultKeySerializer()

	storeOpts := append([]store.Option{
		store.WithConfig(config),
		store.WithCacheService(cacheService),
		store.WithKeySerializer(keySerializer),
	}, opts...)

	st, err := store.New(source, storeOpts...)
	if err != nil {
		return nil, err
	}

	return &Container{
		cacheService:  cacheService,
		keySerializer: keySerializer,
		config:        config,
		store:         st,
		hierarchy:     hierarchy.New(st),
	}, nil
}

// NewContainerWithDefaults creates a container with cache.DefaultConfig.
func NewContainerWithDefaults(source store.Source, opts ...store.Option) (*Container, error) {
	return NewContainer(source, cache.DefaultConfig(), opts...)
}

// CacheService returns the shared cache backend.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the shared key serializer.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// Store returns the category store.
func (c *Container) Store() *store.Store {
	return c.store
}

// Hierarchy returns the hierarchy service reading from Store.
func (c *Container) Hierarchy() *hierarchy.Service {
	return c.hierarchy
}

// NewInvalidatingRepository wraps base so that its successful writes
// invalidate the container's store.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: NewInvalidatingRepository[*Category](container, baseCategoryRepository)
func NewInvalidatingRepository[T any](container *Container, base repository.Repository[T], extra ...repositorycache.Invalidator) *repositorycache.InvalidatingRepository[T] {
	invalidators := append([]repositorycache.Invalidator{container.store}, extra...)
	return repositorycache.New(base, invalidators...)
}
