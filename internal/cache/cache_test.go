package cache

import (
	"context"
	"testing"

	"github.com/meditalk/meditalk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentCache_SetGetClear(t *testing.T) {
	ctx := context.Background()
	c := NewContentCache(nil)

	_, err := c.Get(ctx, "missing.txt")
	require.Error(t, err)

	require.NoError(t, c.Set(ctx, "index.html", "<h1>hi</h1>\n"))
	got, err := c.Get(ctx, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi</h1>\n", got)

	stats := c.GetStats()
	assert.Equal(t, "content", stats.CacheName)
	assert.Equal(t, config.CacheTypeMemory, stats.CacheType)
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Miss)
	assert.EqualValues(t, 1, stats.SetSuccess)

	c.ClearAll(ctx)
	_, err = c.Get(ctx, "index.html")
	assert.Error(t, err)
}

func TestPrefixedCache_SharedStoreKeepsPrefixesApart(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCache()
	a := NewPrefixedCache[string](store, config.CacheTypeMemory, "a-")
	b := NewPrefixedCache[string](store, config.CacheTypeMemory, "b-")

	require.NoError(t, a.Set(ctx, "key", "from a"))
	require.NoError(t, b.Set(ctx, "key", "from b"))

	got, err := a.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "from a", got)

	require.NoError(t, b.Delete(ctx, "key"))
	_, err = b.Get(ctx, "key")
	assert.Error(t, err)

	got, err = a.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "from a", got)
}
