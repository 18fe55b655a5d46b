// Package cache provides a generic TTL cache with in-memory and Redis backends.
//
// Both implementations share the same [Cache] interface, so the in-process
// memory backend used by default can be swapped for Redis in multi-instance
// deployments without touching callers.
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL
//   - Negative: item never expires
//
// The memory backend is TTL-only: expired entries are treated as absent on
// read and a background janitor sweeps them periodically. There is no
// size-based eviction.
//
//	c := cache.NewMemory[ListResult](
//	    cache.WithDefaultTTL(5 * time.Minute),
//	    cache.WithCleanupInterval(time.Minute),
//	)
//	defer c.Close()
//
// Use the standalone [GetOrSet] helper for read-through access with
// singleflight stampede protection:
//
//	res, err := cache.GetOrSet(ctx, c, key, func(ctx context.Context) (ListResult, time.Duration, error) {
//	    out, err := repo.List(ctx, q)
//	    return out, 5 * time.Minute, err
//	})
//
// Both backends keep hit/miss counters, exposed via [Cache.Stats] for
// admin introspection endpoints.
package cache
