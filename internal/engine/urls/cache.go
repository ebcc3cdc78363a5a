package urls

import (
	"sync"
	"time"
)

type cachedTarget struct {
	target   string
	cachedAt time.Time
}

// ResolveCache is a TTL cache in front of the store for the redirect
// path, keyed by the alias string form. Safe for concurrent use.
type ResolveCache struct {
	store sync.Map // map[string]*cachedTarget
	ttl   time.Duration
}

func NewResolveCache(ttl time.Duration) *ResolveCache {
	return &ResolveCache{ttl: ttl}
}

func (c *ResolveCache) Get(aliasStr string) (string, bool) {
	val, ok := c.store.Load(aliasStr)
	if !ok {
		return "", false
	}

	entry := val.(*cachedTarget)
	if time.Since(entry.cachedAt) > c.ttl {
		c.store.Delete(aliasStr)
		return "", false
	}
	return entry.target, true
}

func (c *ResolveCache) Set(aliasStr, target string) {
	c.store.Store(aliasStr, &cachedTarget{
		target:   target,
		cachedAt: time.Now(),
	})
}
