// Package loadenv provides tests for the scoped caching functionality.
package loadenv

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		env       Environment
		path      string
		secret    string
		want      string
	}{
		{
			name:      "empty path",
			projectID: "test_project",
			env:       EnvironmentDev,
			path:      "",
			secret:    "TEST_SECRET",
			want:      "test_project:dev::TEST_SECRET",
		},
		{
			name:      "explicit path",
			projectID: "my-project",
			env:       EnvironmentProd,
			path:      "/backend",
			secret:    "DB_PASSWORD",
			want:      "my-project:prod:/backend:DB_PASSWORD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cacheKey(tt.projectID, tt.env, tt.path, tt.secret))
		})
	}
}

func TestScopePrefix(t *testing.T) {
	assert.Equal(t, "p:dev:/api", scopePrefix("p", EnvironmentDev, "/api"))

	// The empty-path prefix covers every path of the project/environment
	// pair, which is what mutation invalidation relies on.
	assert.Equal(t, "p:dev:", scopePrefix("p", EnvironmentDev, ""))
}

func TestNewScopedCache(t *testing.T) {
	tests := []struct {
		name       string
		defaultTTL time.Duration
		maxSize    int
	}{
		{name: "valid cache creation", defaultTTL: 5 * time.Minute, maxSize: 100},
		{name: "unlimited size", defaultTTL: 10 * time.Minute, maxSize: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewScopedCache(tt.defaultTTL, tt.maxSize)

			assert.NotNil(t, cache)
			assert.Equal(t, tt.maxSize, cache.maxSize)
			assert.Equal(t, tt.defaultTTL, cache.defaultTTL)
			assert.NotNil(t, cache.entries)
		})
	}
}

func TestScopedCache_Get(t *testing.T) {
	cache := NewScopedCache(5*time.Minute, 10)

	t.Run("get non-existent key", func(t *testing.T) {
		value, found := cache.Get("non-existent")
		assert.False(t, found)
		assert.Nil(t, value)
	})

	t.Run("get existing key", func(t *testing.T) {
		cache.Set("test-key", "test-value", time.Minute)
		value, found := cache.Get("test-key")
		assert.True(t, found)
		assert.Equal(t, "test-value", value)
	})

	t.Run("get expired key", func(t *testing.T) {
		cache.Clear()
		cache.Set("expired-key", "expired-value", 10*time.Millisecond)
		time.Sleep(15 * time.Millisecond)

		value, found := cache.Get("expired-key")
		assert.False(t, found)
		assert.Nil(t, value)

		// Verify entry was cleaned up
		assert.Equal(t, 0, cache.Size())
	})
}

func TestScopedCache_Contains(t *testing.T) {
	cache := NewScopedCache(5*time.Minute, 10)

	assert.False(t, cache.Contains("missing"))

	cache.Set("present", "value", time.Minute)
	assert.True(t, cache.Contains("present"))

	cache.Set("short-lived", "value", 10*time.Millisecond)
	time.Sleep(15 * time.Millisecond)
	assert.False(t, cache.Contains("short-lived"))
}

func TestScopedCache_Set(t *testing.T) {
	cache := NewScopedCache(5*time.Minute, 10)

	t.Run("set with default TTL", func(t *testing.T) {
		cache.Set("key1", "value1", 0)
		value, found := cache.Get("key1")
		assert.True(t, found)
		assert.Equal(t, "value1", value)
	})

	t.Run("overwrite existing key", func(t *testing.T) {
		cache.Set("key2", "value2", time.Minute)
		cache.Set("key2", "new-value2", time.Minute)

		value, found := cache.Get("key2")
		assert.True(t, found)
		assert.Equal(t, "new-value2", value)
	})

	t.Run("overwrite at capacity does not evict", func(t *testing.T) {
		small := NewScopedCache(5*time.Minute, 2)
		small.Set("a", "1", time.Minute)
		small.Set("b", "2", time.Minute)

		// Replacing an existing key must not push anything out.
		small.Set("a", "3", time.Minute)
		assert.Equal(t, 2, small.Size())
		assert.True(t, small.Contains("b"))
	})
}

func TestScopedCache_DeletePrefix(t *testing.T) {
	cache := NewScopedCache(5*time.Minute, 0)

	t.Run("removes only matching keys", func(t *testing.T) {
		cache.Clear()
		cache.Set("proj:dev:/api:SECRET_A", "a", time.Minute)
		cache.Set("proj:dev:/api:SECRET_B", "b", time.Minute)
		cache.Set("proj:prod:/api:SECRET_A", "c", time.Minute)
		cache.Set("other:dev:/api:SECRET_A", "d", time.Minute)

		removed := cache.DeletePrefix("proj:dev:")
		assert.Equal(t, 2, removed)
		assert.Equal(t, 2, cache.Size())
		assert.False(t, cache.Contains("proj:dev:/api:SECRET_A"))
		assert.False(t, cache.Contains("proj:dev:/api:SECRET_B"))
		assert.True(t, cache.Contains("proj:prod:/api:SECRET_A"))
		assert.True(t, cache.Contains("other:dev:/api:SECRET_A"))
	})

	t.Run("no match is a no-op", func(t *testing.T) {
		cache.Clear()
		cache.Set("proj:dev::NAME", "v", time.Minute)

		removed := cache.DeletePrefix("unrelated:")
		assert.Equal(t, 0, removed)
		assert.Equal(t, 1, cache.Size())
	})

	t.Run("empty prefix removes everything", func(t *testing.T) {
		cache.Clear()
		cache.Set("k1", "v", time.Minute)
		cache.Set("k2", "v", time.Minute)

		removed := cache.DeletePrefix("")
		assert.Equal(t, 2, removed)
		assert.Equal(t, 0, cache.Size())
	})
}

func TestScopedCache_Size(t *testing.T) {
	cache := NewScopedCache(5*time.Minute, 10)

	t.Run("empty cache size", func(t *testing.T) {
		assert.Equal(t, 0, cache.Size())
	})

	t.Run("size after adding entries", func(t *testing.T) {
		cache.Set("key1", "value1", time.Minute)
		cache.Set("key2", "value2", time.Minute)
		assert.Equal(t, 2, cache.Size())
	})

	t.Run("size after expiration", func(t *testing.T) {
		cache.Clear()
		cache.Set("expired", "value", 10*time.Millisecond)
		time.Sleep(15 * time.Millisecond)
		assert.Equal(t, 0, cache.Size())
	})
}

func TestScopedCache_Delete(t *testing.T) {
	cache := NewScopedCache(5*time.Minute, 10)

	t.Run("delete existing key", func(t *testing.T) {
		cache.Set("key1", "value1", time.Minute)
		require.Equal(t, 1, cache.Size())

		cache.Delete("key1")
		assert.Equal(t, 0, cache.Size())
	})

	t.Run("delete non-existent key", func(t *testing.T) {
		cache.Delete("non-existent") // Should not panic
		assert.Equal(t, 0, cache.Size())
	})
}

func TestScopedCache_Clear(t *testing.T) {
	cache := NewScopedCache(5*time.Minute, 10)

	cache.Set("key1", "value1", time.Minute)
	cache.Set("key2", "value2", time.Minute)
	require.Equal(t, 2, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())

	_, found := cache.Get("key1")
	assert.False(t, found)
}

func TestScopedCache_MaxSize(t *testing.T) {
	t.Run("add entry beyond limit triggers eviction", func(t *testing.T) {
		cache := NewScopedCache(5*time.Minute, 2)

		cache.Set("key1", "value1", time.Hour)   // Expires later
		cache.Set("key2", "value2", time.Minute) // Expires sooner
		cache.Set("key3", "value3", time.Minute) // Triggers eviction

		// key2 (earliest expiration) should have been evicted.
		assert.Equal(t, 2, cache.Size())
		assert.True(t, cache.Contains("key1"))
		assert.False(t, cache.Contains("key2"))
		assert.True(t, cache.Contains("key3"))
	})

	t.Run("capacity bound holds under many inserts", func(t *testing.T) {
		cache := NewScopedCache(time.Hour, 100)

		for i := 0; i < 150; i++ {
			cache.Set(fmt.Sprintf("key-%d", i), i, 0)
		}

		assert.LessOrEqual(t, cache.Size(), 100)
	})
}

func TestScopedCache_ThreadSafety(t *testing.T) {
	cache := NewScopedCache(5*time.Minute, 0)

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := fmt.Sprintf("proj:dev::key-%d", id)
			cache.Set(key, fmt.Sprintf("value-%d", id), time.Minute)

			value, found := cache.Get(key)
			require.True(t, found)
			require.Equal(t, fmt.Sprintf("value-%d", id), value.(string))

			cache.DeletePrefix("unmatched:")
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	assert.Equal(t, 10, cache.Size())
}

func TestCacheEntry_IsExpired(t *testing.T) {
	now := time.Now()

	t.Run("entry not expired", func(t *testing.T) {
		entry := &cacheEntry{expiration: now.Add(time.Minute)}
		assert.False(t, entry.isExpired())
	})

	t.Run("entry expired", func(t *testing.T) {
		entry := &cacheEntry{expiration: now.Add(-time.Minute)}
		assert.True(t, entry.isExpired())
	})
}

func BenchmarkScopedCache_Get(b *testing.B) {
	cache := NewScopedCache(5*time.Minute, 1000)

	for i := 0; i < 100; i++ {
		cache.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i), time.Minute)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			cache.Get(fmt.Sprintf("key-%d", i%100))
			i++
		}
	})
}

func BenchmarkScopedCache_DeletePrefix(b *testing.B) {
	cache := NewScopedCache(5*time.Minute, 0)

	for i := 0; i < b.N; i++ {
		for j := 0; j < 20; j++ {
			cache.Set(fmt.Sprintf("proj:dev:/api:SECRET_%d", j), j, time.Minute)
		}
		cache.DeletePrefix("proj:dev:")
	}
}
