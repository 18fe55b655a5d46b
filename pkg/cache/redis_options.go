package cache

import "time"

// RedisOption configures the Redis-backed cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		defaultTTL: 5 * time.Minute,
	}
}

// WithPrefix namespaces all keys under "prefix:". Clear and Stats are
// then scoped to the prefix instead of the whole database.
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// WithRedisDefaultTTL sets the default expiration for cache entries
// when Set is called with a zero TTL.
// Default: 5 minutes.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}
