// Package cache provides TTL-keyed memoization for the recommendation
// pipeline. Staleness is bounded by TTL plus explicit invalidation; there is
// no background sweep, only TTL-on-read and an explicit Sweep call.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Strategy selects the TTL class of a query. Suggestion lists depend on
// deck edits and get a short TTL; format-wide coverage changes only with
// catalog updates and lives much longer.
type Strategy string

const (
	StrategySuggestions Strategy = "suggestions"
	StrategyValidation  Strategy = "validation"
	StrategyBuildable   Strategy = "buildable"
	StrategyCoverage    Strategy = "coverage"
)

// DefaultTTLs returns the TTL per strategy.
func DefaultTTLs() map[Strategy]time.Duration {
	return map[Strategy]time.Duration{
		StrategySuggestions: 2 * time.Minute,
		StrategyValidation:  2 * time.Minute,
		StrategyBuildable:   10 * time.Minute,
		StrategyCoverage:    24 * time.Hour,
	}
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Evictions     int64 `json:"evictions"`
	Invalidations int64 `json:"invalidations"`
	Size          int   `json:"size"`
}

type entry struct {
	value      any
	strategy   Strategy
	computedAt time.Time
}

// Cache memoizes expensive pipeline computations. Concurrent misses on the
// same key collapse to a single underlying computation; warm keys and
// distinct keys are read without contention beyond the read lock.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttls    map[Strategy]time.Duration
	group   singleflight.Group
	stats   Stats
	clock   func() time.Time
}

// New creates a cache with the given TTL table. Nil falls back to
// DefaultTTLs.
func New(ttls map[Strategy]time.Duration) *Cache {
	if ttls == nil {
		ttls = DefaultTTLs()
	}
	return &Cache{
		entries: make(map[string]*entry),
		ttls:    ttls,
		clock:   time.Now,
	}
}

// Key builds a deterministic cache key. The first part is the subject ID so
// Invalidate can match by prefix.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

// GetOrCompute returns the cached value for key when fresh, otherwise runs
// compute (at most once per key across concurrent callers) and caches the
// result. A compute error is propagated and never cached, so the next call
// retries. The bool reports whether the value came from cache.
func (c *Cache) GetOrCompute(ctx context.Context, key string, strategy Strategy, compute func(ctx context.Context) (any, error)) (any, bool, error) {
	if value, ok := c.lookup(key); ok {
		return value, true, nil
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have stored the value while this
		// goroutine waited on the flight group.
		if value, ok := c.lookup(key); ok {
			return value, nil
		}
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, strategy, value)
		return value, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, false, nil
}

// lookup returns a fresh entry's value. Expired entries are misses; they
// are removed lazily by Sweep or overwritten on recompute.
func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.countMiss()
		return nil, false
	}
	ttl := c.ttls[e.strategy]
	if ttl > 0 && c.clock().Sub(e.computedAt) >= ttl {
		c.countMiss()
		return nil, false
	}
	c.countHit()
	return e.value, true
}

func (c *Cache) store(key string, strategy Strategy, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{
		value:      value,
		strategy:   strategy,
		computedAt: c.clock(),
	}
	c.stats.Size = len(c.entries)
}

// Invalidate removes every entry whose subject prefix matches. Collaborators
// that mutate a collection or deck must call this; the cache never polls.
func (c *Cache) Invalidate(subjectID string) int {
	prefix := subjectID + "|"
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) || strings.Contains(key, "|"+subjectID+"|") || strings.HasSuffix(key, "|"+subjectID) {
			delete(c.entries, key)
			removed++
		}
	}
	c.stats.Invalidations += int64(removed)
	c.stats.Size = len(c.entries)
	return removed
}

// InvalidateStrategy removes every entry of one strategy class. Used when
// the catalog reloads and format-wide results go stale at once.
func (c *Cache) InvalidateStrategy(strategy Strategy) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if e.strategy == strategy {
			delete(c.entries, key)
			removed++
		}
	}
	c.stats.Invalidations += int64(removed)
	c.stats.Size = len(c.entries)
	return removed
}

// Sweep removes expired entries. Explicit and synchronous so tests stay
// deterministic; there is no background timer.
func (c *Cache) Sweep() int {
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		ttl := c.ttls[e.strategy]
		if ttl > 0 && now.Sub(e.computedAt) >= ttl {
			delete(c.entries, key)
			removed++
		}
	}
	c.stats.Evictions += int64(removed)
	c.stats.Size = len(c.entries)
	return removed
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := c.stats
	stats.Size = len(c.entries)
	return stats
}

// HitRate returns the hit percentage across all lookups.
func (c *Cache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total) * 100
}

func (c *Cache) countHit() {
	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
}

func (c *Cache) countMiss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
}
