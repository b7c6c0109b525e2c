// Package content loads static content files and expands include directives in them.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/charmbracelet/log"
	"github.com/meditalk/meditalk/internal/cache"
)

// ErrNotFound is returned when a content file does not exist.
var ErrNotFound = errors.New("content not found")

// Loader reads content files from a filesystem and optionally memoizes them.
type Loader struct {
	fsys  fs.FS
	cache *cache.ContentCache
}

// NewLoader returns a loader over fsys. A nil cache disables memoization.
func NewLoader(fsys fs.FS, c *cache.ContentCache) *Loader {
	return &Loader{
		fsys:  fsys,
		cache: c,
	}
}

// cacheKey is the base name of the resource. Files with the same base name in
// different directories share one entry.
func cacheKey(name string) string {
	return path.Base(name)
}

// Load returns the content of name. A cached entry is returned without reading the
// filesystem. On a miss the file is read and, if memoize is set, stored in the cache.
// Failed reads are never cached.
func (l *Loader) Load(ctx context.Context, name string, memoize bool) ([]byte, error) {
	key := cacheKey(name)
	if l.cache != nil {
		if data, err := l.cache.Get(ctx, key); err == nil {
			return []byte(data), nil
		}
	}

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, fmt.Errorf("load %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	if memoize && l.cache != nil {
		if err := l.cache.Set(ctx, key, string(data)); err != nil {
			log.Warn("failed to cache content", "name", name, "error", err)
		}
	}
	return data, nil
}

// Clear drops every memoized file.
func (l *Loader) Clear(ctx context.Context) {
	if l.cache != nil {
		l.cache.ClearAll(ctx)
	}
}

// Stats returns the cache counters, or nil when memoization is disabled.
func (l *Loader) Stats() *cache.Stats {
	if l.cache == nil {
		return nil
	}
	return l.cache.GetStats()
}
