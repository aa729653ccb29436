// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaverse/internal/core/author"
)

type memoryRepository struct {
	pool  map[string]bool
	links map[author.Role]map[string][]string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		pool:  map[string]bool{},
		links: map[author.Role]map[string][]string{author.RoleAuthor: {}, author.RoleArtist: {}},
	}
}

func (r *memoryRepository) InsertIgnore(_ context.Context, names []string) error {
	for _, name := range names {
		r.pool[name] = true
	}
	return nil
}

func (r *memoryRepository) Link(_ context.Context, role author.Role, mangaID string, names []string) error {
	for _, name := range names {
		if r.pool[name] {
			r.links[role][mangaID] = append(r.links[role][mangaID], name)
		}
	}
	return nil
}

func (r *memoryRepository) ListByManga(_ context.Context, role author.Role, mangaID string) ([]string, error) {
	return r.links[role][mangaID], nil
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []string{"CHUGONG"}, author.NormalizeAuthors([]string{" Chugong", "CHUGONG", ""}))
	assert.Equal(t, []string{"dubu", "redice studio"}, author.NormalizeArtists([]string{"DUBU", "Redice Studio"}))
}

/*
TestCredit verifies casing, the shared name pool and role-specific links.
*/
func TestCredit(t *testing.T) {
	repo := newMemoryRepository()
	service := author.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	authors, artists, err := service.Credit(ctx, "m1", []string{"Chugong"}, []string{"DUBU"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CHUGONG"}, authors)
	assert.Equal(t, []string{"dubu"}, artists)

	assert.True(t, repo.pool["CHUGONG"])
	assert.True(t, repo.pool["dubu"])

	gotAuthors, err := service.List(ctx, author.RoleAuthor, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"CHUGONG"}, gotAuthors)

	gotArtists, err := service.List(ctx, author.RoleArtist, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"dubu"}, gotArtists)
}

func TestCredit_Empty(t *testing.T) {
	repo := newMemoryRepository()
	service := author.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	authors, artists, err := service.Credit(context.Background(), "m1", nil, []string{" "})
	require.NoError(t, err)
	assert.Empty(t, authors)
	assert.Empty(t, artists)
	assert.Empty(t, repo.pool)
}
