// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/mangaverse/internal/core/author"
	"github.com/taibuivan/mangaverse/internal/core/chapter"
	"github.com/taibuivan/mangaverse/internal/core/manga"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
)

// memoryRepository is an in-memory [manga.Repository].
// WithinTx snapshots state and restores it when fn fails.
type memoryRepository struct {
	mu sync.Mutex

	order    []string
	rows     map[string]*manga.Manga
	titles   map[string][]string
	genres   map[string][]string
	names    map[string]string
	listings map[string]manga.Listing
	touched  map[string]time.Time

	calls       []string
	failPromote bool
	failOn      map[string]error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		rows:     map[string]*manga.Manga{},
		titles:   map[string][]string{},
		genres:   map[string][]string{},
		names:    map[string]string{},
		listings: map[string]manga.Listing{},
		touched:  map[string]time.Time{},
		failOn:   map[string]error{},
	}
}

func (r *memoryRepository) record(call string) error {
	r.calls = append(r.calls, call)
	return r.failOn[call]
}

func clone(m *manga.Manga) *manga.Manga {
	copied := *m
	src := *m.Source
	copied.Source = &src
	copied.Titles, copied.Authors, copied.Artists, copied.Genres, copied.Chapters = nil, nil, nil, nil, nil
	return &copied
}

func (r *memoryRepository) FindByURL(_ context.Context, url string) (*manga.Manga, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if r.rows[id].URL == url {
			return clone(r.rows[id]), nil
		}
	}
	return nil, apperr.NotFound("manga")
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*manga.Manga, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.rows[id]; ok {
		return clone(m), nil
	}
	return nil, apperr.NotFound("manga")
}

func (r *memoryRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	_, err := r.FindByURL(ctx, url)
	if apperr.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *memoryRepository) ListTitles(_ context.Context, linkedID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOn["ListTitles"]; err != nil {
		return nil, err
	}
	return append([]string(nil), r.titles[linkedID]...), nil
}

func (r *memoryRepository) ListGenreNames(_ context.Context, mangaID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, id := range r.genres[mangaID] {
		out = append(out, r.names[id])
	}
	return out, nil
}

func (r *memoryRepository) ListStaleURLs(_ context.Context, sourceID string, cutoff time.Time, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stale []*manga.Manga
	for _, id := range r.order {
		m := r.rows[id]
		if m.Source.ID == sourceID && m.LastWatchTime.Before(cutoff) {
			stale = append(stale, m)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].LastWatchTime.Before(stale[j].LastWatchTime) })
	var urls []string
	for i := 0; i < len(stale) && i < limit; i++ {
		urls = append(urls, stale[i].URL)
	}
	return urls, nil
}

func (r *memoryRepository) Insert(_ context.Context, m *manga.Manga) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("Insert"); err != nil {
		return err
	}
	for _, existing := range r.rows {
		if existing.URL == m.URL {
			return apperr.Conflict("manga already exists", nil)
		}
	}
	r.order = append(r.order, m.ID)
	r.rows[m.ID] = clone(m)
	return nil
}

func (r *memoryRepository) FindMainCandidate(_ context.Context, titles []string) (*manga.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := map[string]bool{}
	for _, t := range titles {
		wanted[t] = true
	}
	for _, id := range r.order {
		m := r.rows[id]
		if !m.IsMain {
			continue
		}
		for _, t := range r.titles[m.LinkedID] {
			if wanted[t] {
				return &manga.Candidate{MangaID: m.ID, LinkedID: m.LinkedID, Priority: m.Source.Priority}, nil
			}
		}
	}
	return nil, apperr.NotFound("main candidate")
}

func (r *memoryRepository) SetLinkedID(_ context.Context, mangaID, linkedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("SetLinkedID"); err != nil {
		return err
	}
	r.rows[mangaID].LinkedID = linkedID
	return nil
}

func (r *memoryRepository) DemoteGroup(_ context.Context, linkedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("DemoteGroup"); err != nil {
		return err
	}
	for _, m := range r.rows {
		if m.LinkedID == linkedID {
			m.IsMain = false
		}
	}
	return nil
}

func (r *memoryRepository) Promote(_ context.Context, mangaID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("Promote"); err != nil {
		return err
	}
	if r.failPromote {
		return apperr.Storage("promote_manga", errors.New("serialization failure"))
	}
	r.rows[mangaID].IsMain = true
	return nil
}

func (r *memoryRepository) InsertTitles(_ context.Context, linkedID string, titles []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("InsertTitles"); err != nil {
		return err
	}
	r.titles[linkedID] = append(r.titles[linkedID], manga.MissingTitles(r.titles[linkedID], titles)...)
	return nil
}

func (r *memoryRepository) InsertGenres(_ context.Context, mangaID string, genreIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("InsertGenres"); err != nil {
		return err
	}
	r.genres[mangaID] = append(r.genres[mangaID], genreIDs...)
	return nil
}

func (r *memoryRepository) ReplaceGenres(_ context.Context, mangaID string, genreIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("ReplaceGenres"); err != nil {
		return err
	}
	r.genres[mangaID] = append([]string(nil), genreIDs...)
	return nil
}

func (r *memoryRepository) UpdateMetadata(_ context.Context, m *manga.Manga) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("UpdateMetadata"); err != nil {
		return err
	}
	row := r.rows[m.ID]
	row.Name, row.CoverURL, row.LastUpdated, row.Status, row.Description = m.Name, m.CoverURL, m.LastUpdated, m.Status, m.Description
	return nil
}

func (r *memoryRepository) SaveListing(_ context.Context, listing manga.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("SaveListing"); err != nil {
		return err
	}
	r.listings[listing.MangaID] = listing
	return nil
}

func (r *memoryRepository) TouchWatchTime(_ context.Context, mangaID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("TouchWatchTime"); err != nil {
		return err
	}
	r.touched[mangaID] = at
	if row, ok := r.rows[mangaID]; ok {
		row.LastWatchTime = at
	}
	return nil
}

func (r *memoryRepository) WithinTx(ctx context.Context, fn func(manga.Repository) error) error {
	r.mu.Lock()
	snapshot := make(map[string]manga.Manga, len(r.rows))
	for id, m := range r.rows {
		snapshot[id] = *m
	}
	r.calls = append(r.calls, "Begin")
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		for id, m := range snapshot {
			restored := m
			r.rows[id] = &restored
		}
		r.calls = append(r.calls, "Rollback")
		return err
	}

	r.mu.Lock()
	r.calls = append(r.calls, "Commit")
	r.mu.Unlock()
	return nil
}

// mainCount returns how many rows of linkedID are main.
func (r *memoryRepository) mainCount(linkedID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.rows {
		if m.LinkedID == linkedID && m.IsMain {
			n++
		}
	}
	return n
}

// fakeCredits implements Crediter and CreditLister.
type fakeCredits struct {
	mu      sync.Mutex
	authors map[string][]string
	artists map[string][]string
	err     error
}

func newFakeCredits() *fakeCredits {
	return &fakeCredits{authors: map[string][]string{}, artists: map[string][]string{}}
}

func (f *fakeCredits) Credit(_ context.Context, mangaID string, authors, artists []string) ([]string, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	authors, artists = author.NormalizeAuthors(authors), author.NormalizeArtists(artists)
	f.authors[mangaID], f.artists[mangaID] = authors, artists
	return authors, artists, nil
}

func (f *fakeCredits) List(_ context.Context, role author.Role, mangaID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if role == author.RoleArtist {
		return f.artists[mangaID], nil
	}
	return f.authors[mangaID], nil
}

// fakeChapters implements ChapterStore.
type fakeChapters struct {
	mu       sync.Mutex
	stored   map[string][]chapter.Chapter
	syncs    int
	syncErr  error
	report   chapter.Report
	lastSync []chapter.Chapter
}

func newFakeChapters() *fakeChapters {
	return &fakeChapters{stored: map[string][]chapter.Chapter{}}
}

func (f *fakeChapters) Insert(_ context.Context, mangaID string, chapters []chapter.Chapter) ([]chapter.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]chapter.Chapter, len(chapters))
	for i, c := range chapters {
		c.ID = mangaID + "-c" + string(rune('a'+i))
		c.MangaID = mangaID
		c.SequenceNumber = i
		out[i] = c
	}
	f.stored[mangaID] = out
	return out, nil
}

func (f *fakeChapters) List(_ context.Context, mangaID string) ([]chapter.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored[mangaID], nil
}

func (f *fakeChapters) Sync(_ context.Context, mangaID string, stored, fresh []chapter.Chapter) (chapter.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncs++
	f.lastSync = fresh
	return f.report, f.syncErr
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
