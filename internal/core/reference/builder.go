// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/mangaverse/internal/core/genre"
	"github.com/taibuivan/mangaverse/internal/core/source"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
)

// GenreLister is the part of a scraping adapter the cache needs.
type GenreLister interface {
	Source() string
	Priority() int
	Genres(ctx context.Context) ([]string, error)
}

// SourceEnsurer registers a source identity.
type SourceEnsurer interface {
	Ensure(ctx context.Context, name string, priority int) (*source.Source, error)
}

// GenreEnsurer upserts genre names and returns the full genre table.
type GenreEnsurer interface {
	EnsureAll(ctx context.Context, names []string) (map[string]genre.Genre, error)
}

// SourceFailure records why a source was left out of the cache.
type SourceFailure struct {
	Source string
	Err    error
}

// Error implements error.
func (f SourceFailure) Error() string {
	return fmt.Sprintf("source %s: %v", f.Source, f.Err)
}

// Unwrap exposes the underlying failure.
func (f SourceFailure) Unwrap() error { return f.Err }

// Builder assembles a [Cache] from every configured source.
type Builder struct {
	sources SourceEnsurer
	genres  GenreEnsurer
	logger  *slog.Logger
}

// NewBuilder constructs a new [Builder].
func NewBuilder(sources SourceEnsurer, genres GenreEnsurer, logger *slog.Logger) *Builder {
	return &Builder{sources: sources, genres: genres, logger: logger}
}

/*
Build registers every source and collects its genre names concurrently.

Description: Each source runs in its own goroutine. A failure (registration or
genre listing) marks only that source as failed and never cancels the others.
Failed sources are excluded from the cache entirely. Once every source has
finished, the union of discovered genre names goes through the Genre Registry
and the full genre table becomes the cache's genre map.

Returns:
  - *Cache: The frozen snapshot
  - []SourceFailure: One entry per excluded source
  - error: Only when the genre table itself could not be loaded
*/
func (b *Builder) Build(ctx context.Context, listers []GenreLister) (*Cache, []SourceFailure, error) {
	var (
		mu       sync.Mutex
		sources  []*source.Source
		names    []string
		failures []SourceFailure
	)

	// Plain Group: a failing source must not cancel its siblings.
	var group errgroup.Group
	for _, lister := range listers {
		group.Go(func() error {
			src, discovered, err := b.register(ctx, lister)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failures = append(failures, SourceFailure{Source: lister.Source(), Err: err})
				b.logger.Error("reference_source_failed",
					slog.String("source", lister.Source()),
					slog.String("kind", string(apperr.KindOf(err))),
					slog.Any("error", err),
				)
				return nil
			}

			sources = append(sources, src)
			names = append(names, discovered...)
			return nil
		})
	}
	_ = group.Wait()

	genres, err := b.genres.EnsureAll(ctx, names)
	if err != nil {
		return nil, failures, fmt.Errorf("reference: failed to load genres: %w", err)
	}

	cache := NewCache(genres, sources)
	b.logger.Info("reference_cache_built",
		slog.Int("sources", len(sources)),
		slog.Int("failed_sources", len(failures)),
		slog.Int("genres", cache.GenreCount()),
	)

	return cache, failures, nil
}

// register runs the source registration and the genre listing side by side.
func (b *Builder) register(ctx context.Context, lister GenreLister) (*source.Source, []string, error) {
	var (
		src    *source.Source
		genres []string
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		src, err = b.sources.Ensure(groupCtx, lister.Source(), lister.Priority())
		return err
	})
	group.Go(func() error {
		var err error
		genres, err = lister.Genres(groupCtx)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	return src, genres, nil
}
