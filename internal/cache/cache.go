package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores fetched source text keyed by origin
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, text string)
	Delete(key string)
	Clear()
}

// Key derives a stable cache key from a source locator
func Key(source string) string {
	hash := sha256.Sum256([]byte(source))
	return "refract:v1:" + hex.EncodeToString(hash[:])
}

// MemoryCache is an in-memory cache whose entries expire after a fixed
// TTL. It is safe for concurrent use.
type MemoryCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryCache creates a new memory cache. A zero TTL keeps entries
// until the process exits.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Get retrieves the text cached under key
func (c *MemoryCache) Get(key string) (string, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(string), true
	}
	return "", false
}

// Set stores text under key
func (c *MemoryCache) Set(key string, text string) {
	c.cache.Set(key, text, c.ttl)
}

// Delete removes the entry under key
func (c *MemoryCache) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all entries
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
