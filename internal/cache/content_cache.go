package cache

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/meditalk/meditalk/internal/config"
)

// ContentCachePrefix is prepended to every static content key.
const ContentCachePrefix = "content-"

// ContentCache memoizes static content files by base name.
type ContentCache struct {
	*PrefixedCache[string]
}

// NewContentCache returns a content cache backed by the configured store.
// A nil config selects the in-memory store.
func NewContentCache(cfg *config.CacheConfig) *ContentCache {
	if cfg == nil {
		cfg = &config.CacheConfig{Type: config.CacheTypeMemory}
	}
	return &ContentCache{
		PrefixedCache: NewPrefixedCache[string](newCacheInstanceByType(cfg), cfg.Type, ContentCachePrefix),
	}
}

// ClearAll empties the cache and logs failures instead of returning them.
func (c *ContentCache) ClearAll(ctx context.Context) {
	if err := c.Clear(ctx); err != nil {
		log.Error("failed to clear content cache", "error", err)
	}
}

// Stats holds the counters of a named cache.
type Stats struct {
	*codec.Stats
	CacheName string           `json:"cacheName"`
	CacheType config.CacheType `json:"cacheType"`
}

func (c *ContentCache) GetStats() *Stats {
	return &Stats{
		Stats:     c.PrefixedCache.GetStats(),
		CacheName: "content",
		CacheType: c.GetType(),
	}
}
