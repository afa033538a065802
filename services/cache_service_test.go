package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGetInvalidate(t *testing.T) {
	cache := NewCache(time.Minute)

	_, ok := cache.Get("property:1")
	assert.False(t, ok)

	cache.Set("property:1", "cached")
	value, ok := cache.Get("property:1")
	assert.True(t, ok)
	assert.Equal(t, "cached", value)

	cache.Invalidate("property:1")
	_, ok = cache.Get("property:1")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(10 * time.Millisecond)
	cache.Set("key", 42)

	time.Sleep(20 * time.Millisecond)
	_, ok := cache.Get("key")
	assert.False(t, ok)
}

func TestCacheInvalidatePrefix(t *testing.T) {
	cache := NewCache(time.Minute)
	cache.Set("property:1", 1)
	cache.Set("property:2", 2)
	cache.Set("user:1", 3)

	cache.InvalidatePrefix("property:")

	_, ok := cache.Get("property:1")
	assert.False(t, ok)
	_, ok = cache.Get("property:2")
	assert.False(t, ok)
	_, ok = cache.Get("user:1")
	assert.True(t, ok)
}
