// Package cache provides the read-through cache abstraction the category store
// is built on.
//
// # Overview
//
// The package exports:
//
//   - CacheService: a read-through cache with per-key in-flight deduplication
//   - GetOrFetch: a generic, type-safe wrapper over CacheService
//   - KeySerializer: builds stable cache keys from a name and arguments
//   - Config: backend configuration, converted to the sturdyc adapter in
//     internal/cacheinfra by NewCacheService
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	keys := cache.NewDefaultKeySerializer()
//	list, err := cache.GetOrFetch(ctx, svc, keys.SerializeKey("categories", 1),
//		func(ctx context.Context) ([]category.Record, error) {
//			return load(ctx)
//		})
//
// Concurrent GetOrFetch calls for the same key share one fetch; every caller
// receives the same result. Failed fetches are never cached.
//
// # Invalidation
//
// Keys built for the same name share the prefix returned by Prefix, so
// DeleteByPrefix(ctx, Prefix("categories")) drops every generation at once.
package cache
