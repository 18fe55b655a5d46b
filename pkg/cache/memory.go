package cache

import (
	"context"
	"sync"
	"time"
)

// entry holds a cached value with its expiration time.
type entry[V any] struct {
	expiresAt time.Time // zero value = never expires
	value     V
}

// isExpired reports whether the entry has passed its expiration time.
func (e *entry[V]) isExpired() bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return time.Now().After(e.expiresAt)
}

// Memory is an in-memory cache with TTL-based expiration.
//
// Expired entries are treated as absent on read (lazy expiry) and a
// background janitor sweeps them periodically to bound memory. There is
// no size-based eviction: the cache is TTL-only and key growth is
// bounded by the distinct keys actually issued.
type Memory[V any] struct {
	items  map[string]*entry[V]
	opts   *memoryOptions
	done   chan struct{}
	hits   int64
	misses int64
	mu     sync.Mutex
	closed bool
}

// NewMemory creates a new in-memory cache.
//
// Example:
//
//	c := cache.NewMemory[string](
//	    cache.WithDefaultTTL(5 * time.Minute),
//	    cache.WithCleanupInterval(30 * time.Second),
//	)
//	defer c.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[V]{
		items: make(map[string]*entry[V]),
		opts:  o,
		done:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get retrieves a value by key.
// Returns ErrNotFound if the key does not exist or has expired.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		m.misses++
		var zero V
		return zero, ErrNotFound
	}

	if e.isExpired() {
		delete(m.items, key)
		m.misses++
		var zero V
		return zero, ErrNotFound
	}

	m.hits++
	return e.value, nil
}

// Set stores a value with the given TTL.
// TTL semantics: positive = expires after duration, zero = use default TTL,
// negative = never expires.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	// Resolve TTL.
	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	// ttl < 0: expiresAt stays zero (never expires)

	m.items[key] = &entry[V]{value: value, expiresAt: expiresAt}

	return nil
}

// Delete removes a key from the cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	delete(m.items, key)

	return nil
}

// Has checks whether a key exists and has not expired.
// Unlike Get, it does not move the hit/miss counters.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return false, nil
	}

	if e.isExpired() {
		delete(m.items, key)
		return false, nil
	}

	return true, nil
}

// Clear removes all entries from the cache. Hit/miss counters survive.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.items = make(map[string]*entry[V])

	return nil
}

// Stats reports accumulated hit/miss counters and the live entry count.
// Expired-but-unswept entries are not counted.
func (m *Memory[V]) Stats(_ context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys int64
	for _, e := range m.items {
		if !e.isExpired() {
			keys++
		}
	}

	return Stats{Hits: m.hits, Misses: m.misses, Keys: keys}, nil
}

// Close stops the background janitor goroutine and marks the cache as closed.
// Close is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)

	return nil
}

// janitor periodically removes expired entries.
func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

// deleteExpired removes all expired entries.
func (m *Memory[V]) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, e := range m.items {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.items, key)
		}
	}
}

var _ Cache[any] = (*Memory[any])(nil)
