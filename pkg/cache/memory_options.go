package cache

import "time"

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
}

func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		defaultTTL:      5 * time.Minute,
		cleanupInterval: time.Minute,
	}
}

// WithDefaultTTL sets the default expiration for cache entries when
// Set is called with a zero TTL.
// Default: 5 minutes.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval sets how often expired entries are removed
// by the background janitor goroutine. Zero disables the janitor;
// expired entries are then only dropped lazily on access.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}
