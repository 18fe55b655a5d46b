package catalog

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/storefront/pkg/cache"
)

// Caches holds one typed cache instance per catalog namespace.
// Splitting by namespace keeps values strongly typed and makes coarse
// invalidation a clear of each instance.
type Caches struct {
	lists      cache.Cache[ListResult]
	details    cache.Cache[Product]
	categories cache.Cache[[]string]
	stats      cache.Cache[Stats]
	counts     cache.Cache[int64]
}

// NewMemoryCaches builds the default in-process cache set with a 60s
// janitor sweep per instance.
func NewMemoryCaches() *Caches {
	return &Caches{
		lists:      cache.NewMemory[ListResult](cache.WithDefaultTTL(listTTL)),
		details:    cache.NewMemory[Product](cache.WithDefaultTTL(detailTTL)),
		categories: cache.NewMemory[[]string](cache.WithDefaultTTL(categoriesTTL)),
		stats:      cache.NewMemory[Stats](cache.WithDefaultTTL(statsTTL)),
		counts:     cache.NewMemory[int64](cache.WithDefaultTTL(countTTL)),
	}
}

// NewRedisCaches builds the cache set on a shared Redis client.
// Each namespace gets its own key prefix so Clear stays scoped.
func NewRedisCaches(client redis.UniversalClient) *Caches {
	return &Caches{
		lists: cache.NewRedis(client, cache.JSONMarshaler[ListResult](),
			cache.WithPrefix(listPrefix+":"), cache.WithRedisDefaultTTL(listTTL)),
		details: cache.NewRedis(client, cache.JSONMarshaler[Product](),
			cache.WithPrefix(detailPrefix+":"), cache.WithRedisDefaultTTL(detailTTL)),
		categories: cache.NewRedis(client, cache.JSONMarshaler[[]string](),
			cache.WithPrefix(categoriesPrefix+":"), cache.WithRedisDefaultTTL(categoriesTTL)),
		stats: cache.NewRedis(client, cache.JSONMarshaler[Stats](),
			cache.WithPrefix(statsKey+":"), cache.WithRedisDefaultTTL(statsTTL)),
		counts: cache.NewRedis(client, cache.JSONMarshaler[int64](),
			cache.WithPrefix(countPrefix+":"), cache.WithRedisDefaultTTL(countTTL)),
	}
}

// InvalidateAll clears every catalog namespace. Called after any
// product mutation; correctness favored over hit rate.
func (c *Caches) InvalidateAll(ctx context.Context) error {
	return errors.Join(
		c.lists.Clear(ctx),
		c.details.Clear(ctx),
		c.categories.Clear(ctx),
		c.stats.Clear(ctx),
		c.counts.Clear(ctx),
	)
}

// Stats aggregates hit/miss/key counters across all namespaces.
func (c *Caches) Stats(ctx context.Context) (cache.Stats, error) {
	var total cache.Stats
	for _, inst := range []interface {
		Stats(context.Context) (cache.Stats, error)
	}{c.lists, c.details, c.categories, c.stats, c.counts} {
		s, err := inst.Stats(ctx)
		if err != nil {
			return cache.Stats{}, err
		}
		total = total.Add(s)
	}
	return total, nil
}

// Close releases every cache instance.
func (c *Caches) Close() error {
	return errors.Join(
		c.lists.Close(),
		c.details.Close(),
		c.categories.Close(),
		c.stats.Close(),
		c.counts.Close(),
	)
}
