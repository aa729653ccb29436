// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/mangaverse/internal/core/author"
	"github.com/taibuivan/mangaverse/internal/core/reference"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
)

// Reader loads stored works with all of their relations.
type Reader struct {
	repo     Repository
	credits  CreditLister
	chapters ChapterStore
	cache    *reference.Cache
}

// NewReader constructs a new [Reader] resolving sources and genres against cache.
func NewReader(repo Repository, credits CreditLister, chapters ChapterStore, cache *reference.Cache) *Reader {
	return &Reader{repo: repo, credits: credits, chapters: chapters, cache: cache}
}

// FindByURL loads the work stored under url.
func (r *Reader) FindByURL(ctx context.Context, url string) (*Manga, error) {
	m, err := r.repo.FindByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, m)
}

// FindByID loads the work with identifier id.
func (r *Reader) FindByID(ctx context.Context, id string) (*Manga, error) {
	m, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, m)
}

/*
hydrate reads every relation of m concurrently. All reads must succeed.

Genre names that the cache does not know are dropped. A source name the cache
does not know fails the whole read with UNKNOWN_SOURCE.
*/
func (r *Reader) hydrate(ctx context.Context, m *Manga) (*Manga, error) {
	src, ok := r.cache.Source(m.Source.Name)
	if !ok {
		return nil, apperr.UnknownSource(m.Source.Name)
	}
	m.Source = src

	var genreNames []string
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		m.Titles, err = r.repo.ListTitles(groupCtx, m.LinkedID)
		return err
	})
	group.Go(func() (err error) {
		m.Authors, err = r.credits.List(groupCtx, author.RoleAuthor, m.ID)
		return err
	})
	group.Go(func() (err error) {
		m.Artists, err = r.credits.List(groupCtx, author.RoleArtist, m.ID)
		return err
	})
	group.Go(func() (err error) {
		genreNames, err = r.repo.ListGenreNames(groupCtx, m.ID)
		return err
	})
	group.Go(func() (err error) {
		m.Chapters, err = r.chapters.List(groupCtx, m.ID)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	m.Genres = r.cache.Genres(genreNames)
	return m, nil
}
