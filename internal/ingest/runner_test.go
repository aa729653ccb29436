// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaverse/internal/core/chapter"
	"github.com/taibuivan/mangaverse/internal/core/genre"
	"github.com/taibuivan/mangaverse/internal/core/manga"
	"github.com/taibuivan/mangaverse/internal/core/reference"
	"github.com/taibuivan/mangaverse/internal/core/source"
	"github.com/taibuivan/mangaverse/internal/ingest"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/scrape"
)

// # Fakes

type fakeAdapter struct {
	name    string
	records map[string]*scrape.Record
	errs    map[string]error
}

func (a *fakeAdapter) Source() string { return a.name }
func (a *fakeAdapter) Priority() int  { return 1 }
func (a *fakeAdapter) Genres(context.Context) ([]string, error) {
	return []string{"action"}, nil
}

func (a *fakeAdapter) Fetch(_ context.Context, url string) (*scrape.Record, error) {
	if err := a.errs[url]; err != nil {
		return nil, err
	}
	if r, ok := a.records[url]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, apperr.NotFound(url)
}

type fakeStore struct {
	mu       sync.Mutex
	stored   map[string]*manga.Manga
	inserted []string
	synced   []string
	syncErr  error
	stale    map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{stored: map[string]*manga.Manga{}, stale: map[string][]string{}}
}

func (s *fakeStore) FindByURL(_ context.Context, url string) (*manga.Manga, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.stored[url]; ok {
		return m, nil
	}
	return nil, apperr.NotFound("manga")
}

func (s *fakeStore) InsertIfNotExists(_ context.Context, m *manga.Manga) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stored[m.URL]; ok {
		return false, nil
	}
	s.stored[m.URL] = m
	s.inserted = append(s.inserted, m.URL)
	return true, nil
}

func (s *fakeStore) Sync(_ context.Context, stored, fresh *manga.Manga) (manga.SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced = append(s.synced, stored.URL)
	report := manga.SyncReport{
		Change:   manga.Compare(stored, fresh),
		Chapters: chapter.Report{Failures: []chapter.Failure{{Position: 0, Err: errors.New("page write")}}},
	}
	return report, s.syncErr
}

func (s *fakeStore) ListStaleURLs(_ context.Context, sourceID string, _ time.Time, _ int) ([]string, error) {
	return s.stale[sourceID], nil
}

type busyLeaser struct{ busy map[string]bool }

func (l busyLeaser) Acquire(_ context.Context, url string) (func(), bool, error) {
	if l.busy[url] {
		return nil, false, nil
	}
	return func() {}, true, nil
}

// # Fixture

func record(url, name string) *scrape.Record {
	return &scrape.Record{
		Source: "readm",
		URL:    url,
		Name:   name,
		Genres: []string{"action"},
		Chapters: []scrape.RecordChapter{
			{Name: "Chapter 1", Pages: []string{url + "/1.jpg"}},
		},
	}
}

func newRunner(store *fakeStore, adapter *fakeAdapter, leaser ingest.Leaser) *ingest.Runner {
	cache := reference.NewCache(
		map[string]genre.Genre{"action": {ID: "g-action", Name: "action"}},
		[]*source.Source{
			{ID: "src-readm", Name: "readm", Priority: 1},
			{ID: "src-mangadino", Name: "mangadino", Priority: 3},
		},
	)
	return ingest.NewRunner(ingest.Deps{
		Adapters: []scrape.Adapter{adapter},
		Cache:    cache,
		Reader:   store,
		Writer:   store,
		Syncer:   store,
		Stale:    store,
		Leaser:   leaser,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)), ingest.WithConcurrency(2))
}

/*
TestRun_RoutesAndIsolates verifies that new URLs are inserted, known URLs are
synchronised and a failing job leaves the rest of the run untouched.
*/
func TestRun_RoutesAndIsolates(t *testing.T) {
	store := newFakeStore()
	store.stored["https://readm.org/manga/known"] = &manga.Manga{URL: "https://readm.org/manga/known", Name: "Known"}

	adapter := &fakeAdapter{
		name: "readm",
		records: map[string]*scrape.Record{
			"https://readm.org/manga/new":   record("https://readm.org/manga/new", "New"),
			"https://readm.org/manga/known": record("https://readm.org/manga/known", "Known Renamed"),
			"https://readm.org/manga/bad":   record("https://readm.org/manga/bad", " "),
		},
		errs: map[string]error{"https://readm.org/manga/down": apperr.Network("https://readm.org/manga/down", errors.New("reset"))},
	}

	runner := newRunner(store, adapter, nil)
	report := runner.Run(context.Background(), []ingest.Job{
		{Source: "readm", URL: "https://readm.org/manga/new"},
		{Source: "readm", URL: "https://readm.org/manga/known"},
		{Source: "readm", URL: "https://readm.org/manga/down"},
		{Source: "readm", URL: "https://readm.org/manga/bad"},
		{Source: "mangadino", URL: "https://mangadino.com/manga/x"},
	})

	require.Len(t, report.Results, 5)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 3, report.Failed)

	byURL := map[string]ingest.Result{}
	for _, r := range report.Results {
		byURL[r.URL] = r
	}
	assert.Equal(t, ingest.OutcomeInserted, byURL["https://readm.org/manga/new"].Outcome)
	assert.Equal(t, ingest.OutcomeSynced, byURL["https://readm.org/manga/known"].Outcome)
	assert.Equal(t, 1, byURL["https://readm.org/manga/known"].ChapterFailures)
	assert.Contains(t, byURL["https://readm.org/manga/known"].Change, "metadata")
	assert.Equal(t, apperr.KindNetwork, byURL["https://readm.org/manga/down"].Kind)
	assert.Equal(t, apperr.KindParse, byURL["https://readm.org/manga/bad"].Kind)

	// mangadino is cached but has no adapter.
	assert.Equal(t, apperr.KindUnknownSource, byURL["https://mangadino.com/manga/x"].Kind)

	assert.Same(t, report, runner.Latest())
}

func TestRun_LeaseHeldElsewhere(t *testing.T) {
	store := newFakeStore()
	adapter := &fakeAdapter{name: "readm", records: map[string]*scrape.Record{
		"https://readm.org/manga/a": record("https://readm.org/manga/a", "A"),
	}}
	leaser := busyLeaser{busy: map[string]bool{"https://readm.org/manga/a": true}}

	report := newRunner(store, adapter, leaser).Run(context.Background(), []ingest.Job{
		{Source: "readm", URL: "https://readm.org/manga/a"},
	})

	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, store.inserted)
}

func TestRun_SyncFailureIsRecorded(t *testing.T) {
	store := newFakeStore()
	store.stored["https://readm.org/manga/a"] = &manga.Manga{URL: "https://readm.org/manga/a", Name: "A"}
	store.syncErr = apperr.Storage("update_manga", errors.New("deadlock"))
	adapter := &fakeAdapter{name: "readm", records: map[string]*scrape.Record{
		"https://readm.org/manga/a": record("https://readm.org/manga/a", "A"),
	}}

	report := newRunner(store, adapter, nil).Run(context.Background(), []ingest.Job{
		{Source: "readm", URL: "https://readm.org/manga/a"},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, ingest.OutcomeFailed, report.Results[0].Outcome)
	assert.Equal(t, apperr.KindStorage, report.Results[0].Kind)
}

func TestLatest_NilBeforeFirstRun(t *testing.T) {
	assert.Nil(t, newRunner(newFakeStore(), &fakeAdapter{name: "readm"}, nil).Latest())
}

/*
TestStaleJobs verifies that only sources with an adapter contribute jobs.
*/
func TestStaleJobs(t *testing.T) {
	store := newFakeStore()
	store.stale["src-readm"] = []string{"https://readm.org/manga/a", "https://readm.org/manga/b"}
	store.stale["src-mangadino"] = []string{"https://mangadino.com/manga/c"}

	jobs, err := newRunner(store, &fakeAdapter{name: "readm"}, nil).StaleJobs(context.Background(), 24*time.Hour)
	require.NoError(t, err)

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].URL < jobs[j].URL })
	assert.Equal(t, []ingest.Job{
		{Source: "readm", URL: "https://readm.org/manga/a"},
		{Source: "readm", URL: "https://readm.org/manga/b"},
	}, jobs)
}

func TestNopLeaser(t *testing.T) {
	release, ok, err := ingest.NopLeaser{}.Acquire(context.Background(), "https://readm.org/manga/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotPanics(t, release)
}
