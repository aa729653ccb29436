// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaverse/internal/core/chapter"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
)

// memoryRepository keeps chapters and pages in maps and records every mutation.
type memoryRepository struct {
	mu       sync.Mutex
	chapters map[string]chapter.Chapter
	pages    map[string][]chapter.Page

	metadataUpdates int
	pageReplaces    int
	failMetadataFor map[string]bool
	failInsert      error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		chapters:        map[string]chapter.Chapter{},
		pages:           map[string][]chapter.Page{},
		failMetadataFor: map[string]bool{},
	}
}

func (r *memoryRepository) ListByManga(_ context.Context, mangaID string) ([]chapter.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []chapter.Chapter
	for _, c := range r.chapters {
		if c.MangaID == mangaID {
			c.Pages = append([]chapter.Page(nil), r.pages[c.ID]...)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (r *memoryRepository) UpdateMetadata(_ context.Context, c *chapter.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMetadataFor[c.ID] {
		return apperr.Storage("update_chapter", errors.New("deadlock detected"))
	}
	stored := r.chapters[c.ID]
	stored.Name, stored.Number, stored.UpdatedAt = c.Name, c.Number, c.UpdatedAt
	r.chapters[c.ID] = stored
	r.metadataUpdates++
	return nil
}

func (r *memoryRepository) ReplacePages(_ context.Context, chapterID string, pages []chapter.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[chapterID] = pages
	r.pageReplaces++
	return nil
}

func (r *memoryRepository) InsertWithPages(_ context.Context, chapters []chapter.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert != nil {
		return r.failInsert
	}
	for _, c := range chapters {
		r.pages[c.ID] = c.Pages
		c.Pages = nil
		r.chapters[c.ID] = c
	}
	return nil
}

func (r *memoryRepository) DeleteWithPages(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.pages, id)
		delete(r.chapters, id)
	}
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scraped(n int) []chapter.Chapter {
	out := make([]chapter.Chapter, n)
	for i := range out {
		out[i] = chapter.Chapter{
			Name:   fmt.Sprintf("Chapter %d", i+1),
			Number: fmt.Sprint(i + 1),
			Pages:  pages(fmt.Sprintf("https://cdn/%d/1.jpg", i), fmt.Sprintf("https://cdn/%d/2.jpg", i)),
		}
	}
	return out
}

// seed inserts n chapters for mangaID and returns them as stored.
func seed(t *testing.T, s *chapter.Synchronizer, repo *memoryRepository, mangaID string, n int) []chapter.Chapter {
	t.Helper()
	_, err := s.Insert(context.Background(), mangaID, scraped(n))
	require.NoError(t, err)
	stored, err := repo.ListByManga(context.Background(), mangaID)
	require.NoError(t, err)
	return stored
}

func assertDenseSequence(t *testing.T, chapters []chapter.Chapter) {
	t.Helper()
	for i, c := range chapters {
		assert.Equal(t, i, c.SequenceNumber)
	}
}

/*
TestInsert_AssignsOwnChapterIDs verifies that pages reference their own chapter.
*/
func TestInsert_AssignsOwnChapterIDs(t *testing.T) {
	repo := newMemoryRepository()
	s := chapter.NewSynchronizer(repo, discard())

	stored := seed(t, s, repo, "m1", 3)
	require.Len(t, stored, 3)
	assertDenseSequence(t, stored)

	for _, c := range stored {
		assert.Equal(t, "m1", c.MangaID)
		require.Len(t, c.Pages, 2)
		for i, p := range c.Pages {
			assert.Equal(t, c.ID, p.ChapterID)
			assert.Equal(t, i, p.PageNumber)
			assert.NotEmpty(t, p.ID)
		}
	}
}

/*
TestSync_Growth covers 10 stored and 12 fresh chapters.
*/
func TestSync_Growth(t *testing.T) {
	repo := newMemoryRepository()
	s := chapter.NewSynchronizer(repo, discard(), chapter.WithConcurrency(3))
	stored := seed(t, s, repo, "m1", 10)

	report, err := s.Sync(context.Background(), "m1", stored, scraped(12))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Appended)
	assert.Zero(t, report.MetadataUpdated)
	assert.Zero(t, report.PagesReplaced)
	assert.Zero(t, repo.metadataUpdates)

	after, _ := repo.ListByManga(context.Background(), "m1")
	require.Len(t, after, 12)
	assertDenseSequence(t, after)
	for i := 0; i < 10; i++ {
		assert.Equal(t, stored[i].ID, after[i].ID)
	}
	assert.NotEqual(t, stored[9].ID, after[10].ID)
	assert.Equal(t, "Chapter 12", after[11].Name)
}

/*
TestSync_Shrink covers 10 stored and 7 fresh chapters.
*/
func TestSync_Shrink(t *testing.T) {
	repo := newMemoryRepository()
	s := chapter.NewSynchronizer(repo, discard())
	stored := seed(t, s, repo, "m1", 10)

	report, err := s.Sync(context.Background(), "m1", stored, scraped(7))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Removed)

	after, _ := repo.ListByManga(context.Background(), "m1")
	require.Len(t, after, 7)
	assertDenseSequence(t, after)
	for _, removed := range stored[7:] {
		assert.NotContains(t, repo.pages, removed.ID)
	}
}

/*
TestSync_ReplacesPagesWholesale verifies the stored chapter id is kept and
every fresh page gets a new identifier.
*/
func TestSync_ReplacesPagesWholesale(t *testing.T) {
	repo := newMemoryRepository()
	s := chapter.NewSynchronizer(repo, discard())
	stored := seed(t, s, repo, "m1", 2)

	fresh := scraped(2)
	fresh[1].Pages = []chapter.Page{
		{ID: "scraper-id", URL: "https://cdn/1/1.jpg"},
		{URL: "https://cdn/1/2-hd.jpg"},
		{URL: "https://cdn/1/3.jpg"},
	}

	report, err := s.Sync(context.Background(), "m1", stored, fresh)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PagesReplaced)
	assert.Equal(t, 1, repo.pageReplaces)

	replaced := repo.pages[stored[1].ID]
	require.Len(t, replaced, 3)
	for i, p := range replaced {
		assert.Equal(t, stored[1].ID, p.ChapterID)
		assert.Equal(t, i, p.PageNumber)
		assert.NotEqual(t, "scraper-id", p.ID)
	}
	assert.Equal(t, stored[0].Pages, repo.pages[stored[0].ID])
}

/*
TestSync_ChapterFailureIsIsolated verifies that a failing pair is reported
while the other pairs and the length reconciliation still run.
*/
func TestSync_ChapterFailureIsIsolated(t *testing.T) {
	repo := newMemoryRepository()
	s := chapter.NewSynchronizer(repo, discard())
	stored := seed(t, s, repo, "m1", 4)
	repo.failMetadataFor[stored[1].ID] = true

	fresh := scraped(5)
	for i := range fresh {
		fresh[i].Name += " (revised)"
	}

	report, err := s.Sync(context.Background(), "m1", stored, fresh)
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Failures[0].Position)
	assert.Equal(t, stored[1].ID, report.Failures[0].ChapterID)
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(report.Failures[0].Err))
	assert.Equal(t, 3, report.MetadataUpdated)
	assert.Equal(t, 1, report.Appended)

	after, _ := repo.ListByManga(context.Background(), "m1")
	assert.Equal(t, "Chapter 2", after[1].Name)
	assert.Equal(t, "Chapter 3 (revised)", after[2].Name)
}

func TestSync_AppendFailurePropagates(t *testing.T) {
	repo := newMemoryRepository()
	s := chapter.NewSynchronizer(repo, discard())
	stored := seed(t, s, repo, "m1", 1)
	repo.failInsert = apperr.Storage("insert_chapters", errors.New("disk full"))

	_, err := s.Sync(context.Background(), "m1", stored, scraped(2))
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
}

/*
TestSync_Idempotent verifies that an identical scrape writes nothing.
*/
func TestSync_Idempotent(t *testing.T) {
	repo := newMemoryRepository()
	clock := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := chapter.NewSynchronizer(repo, discard(), chapter.WithClock(func() time.Time { return clock }))
	stored := seed(t, s, repo, "m1", 5)

	report, err := s.Sync(context.Background(), "m1", stored, scraped(5))
	require.NoError(t, err)
	assert.Equal(t, chapter.Report{}, report)
	assert.Zero(t, repo.metadataUpdates)
	assert.Zero(t, repo.pageReplaces)
	assert.Equal(t, clock, stored[0].LastWatchTime)
}

// reversedDiffer pairs nothing and replaces everything, to prove the strategy is pluggable.
type reversedDiffer struct{ calls int }

func (d *reversedDiffer) Plan(stored, fresh []chapter.Chapter) chapter.Plan {
	d.calls++
	return chapter.Plan{}
}

func TestSync_CustomDiffer(t *testing.T) {
	differ := &reversedDiffer{}
	s := chapter.NewSynchronizer(newMemoryRepository(), discard(), chapter.WithDiffer(differ))

	report, err := s.Sync(context.Background(), "m1", nil, scraped(3))
	require.NoError(t, err)
	assert.Equal(t, 1, differ.calls)
	assert.Zero(t, report.Appended)
}
