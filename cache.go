// Package loadenv provides scoped caching for Infisical secret operations.
package loadenv

import (
	"strings"
	"sync"
	"time"
)

// Cache key layout: project, environment, and path joined by ":" with the
// secret name appended, e.g. "my-project:dev:/backend:DB_PASSWORD". The
// delimiter is not escaped inside components; colliding keys are an accepted
// limitation of the encoding.
const cacheKeyDelimiter = ":"

// scopePrefix builds the cache-key prefix shared by every secret cached
// under a (project, environment, path) scope.
func scopePrefix(projectID string, env Environment, path string) string {
	return projectID + cacheKeyDelimiter + string(env) + cacheKeyDelimiter + path
}

// cacheKey builds the full cache key for a named secret within a scope.
func cacheKey(projectID string, env Environment, path, name string) string {
	return scopePrefix(projectID, env, path) + cacheKeyDelimiter + name
}

// cacheEntry represents a single cached item with expiration time.
type cacheEntry struct {
	value      any
	expiration time.Time
}

// isExpired checks if the cache entry has expired.
func (e *cacheEntry) isExpired() bool {
	return time.Now().After(e.expiration)
}

// ScopedCache provides a thread-safe, bounded, time-expiring cache keyed by
// scope-prefixed strings. Beyond plain get/set it supports deleting every
// entry under a scope prefix, which is how mutations invalidate reads.
type ScopedCache struct {
	// entries holds the cached values with their expiration times
	entries map[string]*cacheEntry

	// maxSize limits the number of entries in the cache (0 = unlimited)
	maxSize int

	// defaultTTL is the default time-to-live for cache entries
	defaultTTL time.Duration

	// mu protects concurrent access to the entries map
	mu sync.Mutex
}

// NewScopedCache creates a new cache with the specified default TTL and
// maximum size. If maxSize is 0, the cache has no size limit.
func NewScopedCache(defaultTTL time.Duration, maxSize int) *ScopedCache {
	return &ScopedCache{
		entries:    make(map[string]*cacheEntry),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a value from the cache by key.
// Returns the value and true if found and not expired, nil and false if not
// found or expired. Expired entries are purged on read.
func (c *ScopedCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if entry.isExpired() {
		delete(c.entries, key)
		return nil, false
	}

	return entry.value, true
}

// Contains reports whether Get would return a value for key, honoring
// expiry the same way.
func (c *ScopedCache) Contains(key string) bool {
	_, found := c.Get(key)
	return found
}

// Set stores a value in the cache with the specified key and TTL.
// If ttl is 0, the default TTL is used. Setting an existing key replaces the
// entry. If the cache is at maximum capacity, the entry with the earliest
// expiration is evicted first.
func (c *ScopedCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.defaultTTL
	}
	expiration := time.Now().Add(ttl)

	// Replacing an existing key never grows the map, so eviction only
	// applies to genuinely new keys.
	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time

		for k, entry := range c.entries {
			if oldestKey == "" || entry.expiration.Before(oldestTime) {
				oldestTime = entry.expiration
				oldestKey = k
			}
		}

		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = &cacheEntry{
		value:      value,
		expiration: expiration,
	}
}

// Delete removes a specific key from the cache.
func (c *ScopedCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// DeletePrefix removes every entry whose key starts with prefix and returns
// the number of entries removed. Removing nothing is not an error.
func (c *ScopedCache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear removes all entries from the cache.
func (c *ScopedCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Size returns the current number of entries in the cache (excluding
// expired entries, which are purged while counting).
func (c *ScopedCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, entry := range c.entries {
		if entry.isExpired() {
			delete(c.entries, key)
		} else {
			count++
		}
	}

	return count
}
