// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference holds the run-wide Reference Cache.

The cache maps canonical genre and source names to their stored identities. It
is assembled once by a [Builder] before any work is processed and is never
mutated afterwards, so every concurrent task can share the same *Cache without
locking.
*/
package reference

import (
	"sort"
	"strings"

	"github.com/taibuivan/mangaverse/internal/core/genre"
	"github.com/taibuivan/mangaverse/internal/core/source"
)

// Cache is an immutable snapshot of genres and sources.
type Cache struct {
	genres  map[string]genre.Genre
	sources map[string]*source.Source
}

// NewCache copies genres and sources into a new snapshot.
func NewCache(genres map[string]genre.Genre, sources []*source.Source) *Cache {
	cache := &Cache{
		genres:  make(map[string]genre.Genre, len(genres)),
		sources: make(map[string]*source.Source, len(sources)),
	}
	for name, g := range genres {
		cache.genres[genre.Normalize(name)] = g
	}
	for _, src := range sources {
		copied := *src
		cache.sources[key(src.Name)] = &copied
	}
	return cache
}

// Genre resolves a scraped genre label.
func (c *Cache) Genre(name string) (genre.Genre, bool) {
	g, ok := c.genres[genre.Normalize(name)]
	return g, ok
}

// Genres resolves every label it can. Unknown labels are dropped.
func (c *Cache) Genres(names []string) []genre.Genre {
	resolved := make([]genre.Genre, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		g, ok := c.Genre(name)
		if !ok {
			continue
		}
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		resolved = append(resolved, g)
	}
	return resolved
}

// Source resolves a source name. The returned value is a copy.
func (c *Cache) Source(name string) (*source.Source, bool) {
	src, ok := c.sources[key(name)]
	if !ok {
		return nil, false
	}
	copied := *src
	return &copied, true
}

// Sources lists every cached source, most trusted first.
func (c *Cache) Sources() []source.Source {
	out := make([]source.Source, 0, len(c.sources))
	for _, src := range c.sources {
		out = append(out, *src)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// GenreCount returns the number of cached genres.
func (c *Cache) GenreCount() int {
	return len(c.genres)
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
