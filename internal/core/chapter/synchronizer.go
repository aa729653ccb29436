// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/ctxutil"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// Failure is a chapter whose pairwise reconciliation failed and was skipped.
type Failure struct {
	Position  int
	ChapterID string
	Err       error
}

// Report summarises one chapter-list synchronisation.
type Report struct {
	MetadataUpdated int
	PagesReplaced   int
	Appended        int
	Removed         int
	Failures        []Failure
}

// Synchronizer is the Chapter/Page Synchronizer.
type Synchronizer struct {
	repo        Repository
	differ      Differ
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
}

// Option customises a [Synchronizer].
type Option func(*Synchronizer)

// WithDiffer swaps the chapter matching strategy.
func WithDiffer(differ Differ) Option {
	return func(s *Synchronizer) { s.differ = differ }
}

// WithConcurrency bounds how many pairs are reconciled at once.
func WithConcurrency(n int) Option {
	return func(s *Synchronizer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithClock overrides the time source used for last-watch stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) { s.now = now }
}

// NewSynchronizer constructs a [Synchronizer] using positional matching by default.
func NewSynchronizer(repo Repository, logger *slog.Logger, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		repo:        repo,
		differ:      PositionalDiffer{},
		concurrency: 8,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

/*
Sync reconciles the stored chapter list of mangaID against fresh.

Step 1 reconciles every matched pair concurrently. A pair that fails is logged
and recorded in the report; it neither aborts the other pairs nor is retried.

Step 2 runs only after every pair has finished. It appends the fresh tail with
new identifiers and positions following the stored list, or deletes the stored
tail together with its pages. Step 2 failures are returned.
*/
func (s *Synchronizer) Sync(ctx context.Context, mangaID string, stored, fresh []Chapter) (Report, error) {
	plan := s.differ.Plan(stored, fresh)
	report := Report{}

	s.reconcilePairs(ctx, plan.Pairs, &report)

	if len(plan.Added) > 0 {
		added := make([]Chapter, 0, len(plan.Added))
		for _, placement := range plan.Added {
			added = append(added, s.prepare(mangaID, placement.Position, *placement.Chapter))
		}
		if err := s.repo.InsertWithPages(ctx, added); err != nil {
			return report, err
		}
		report.Appended = len(added)
	}

	if len(plan.Removed) > 0 {
		ids := make([]string, 0, len(plan.Removed))
		for _, removed := range plan.Removed {
			ids = append(ids, removed.ID)
		}
		if err := s.repo.DeleteWithPages(ctx, ids); err != nil {
			return report, err
		}
		report.Removed = len(ids)
	}

	return report, nil
}

/*
Insert stores the chapters of a brand-new work.

Every chapter gets a new identifier, the work's id and its list position as
sequence number. Pages are attached to their own chapter's identifier.
*/
func (s *Synchronizer) Insert(ctx context.Context, mangaID string, chapters []Chapter) ([]Chapter, error) {
	prepared := make([]Chapter, 0, len(chapters))
	for i, c := range chapters {
		prepared = append(prepared, s.prepare(mangaID, i, c))
	}

	if err := s.repo.InsertWithPages(ctx, prepared); err != nil {
		return nil, err
	}

	return prepared, nil
}

// List loads the stored chapters of mangaID.
func (s *Synchronizer) List(ctx context.Context, mangaID string) ([]Chapter, error) {
	return s.repo.ListByManga(ctx, mangaID)
}

func (s *Synchronizer) reconcilePairs(ctx context.Context, pairs []Pair, report *Report) {
	var (
		mu    sync.Mutex
		group errgroup.Group
	)
	group.SetLimit(s.concurrency)

	for _, pair := range pairs {
		group.Go(func() error {
			change, err := s.reconcile(ctx, pair)

			mu.Lock()
			defer mu.Unlock()

			if change.Has(ChangeMetadata) {
				report.MetadataUpdated++
			}
			if change.Has(ChangePages) {
				report.PagesReplaced++
			}
			if err != nil {
				report.Failures = append(report.Failures, Failure{Position: pair.Position, ChapterID: pair.Stored.ID, Err: err})
				ctxutil.GetLogger(ctx).Error("chapter_sync_failed",
					slog.String("chapter_id", pair.Stored.ID),
					slog.Int("position", pair.Position),
					slog.String("kind", string(apperr.KindOf(err))),
					slog.Any("error", err),
				)
			}

			// Swallowed: one chapter never fails its siblings.
			return nil
		})
	}

	_ = group.Wait()
}

// reconcile applies one pair. The returned change only holds the parts that were written.
func (s *Synchronizer) reconcile(ctx context.Context, pair Pair) (Change, error) {
	change := Compare(pair.Stored, pair.Fresh)
	applied := ChangeNone

	if change.Has(ChangeMetadata) {
		updated := *pair.Stored
		updated.Name = pair.Fresh.Name
		updated.Number = pair.Fresh.Number
		updated.UpdatedAt = pair.Fresh.UpdatedAt

		if err := s.repo.UpdateMetadata(ctx, &updated); err != nil {
			return applied, err
		}
		applied |= ChangeMetadata
	}

	if change.Has(ChangePages) {
		pages := preparePages(pair.Stored.ID, pair.Fresh.Pages)
		if err := s.repo.ReplacePages(ctx, pair.Stored.ID, pages); err != nil {
			return applied, err
		}
		applied |= ChangePages
	}

	return applied, nil
}

func (s *Synchronizer) prepare(mangaID string, position int, c Chapter) Chapter {
	c.ID = uuid.New()
	c.MangaID = mangaID
	c.SequenceNumber = position
	c.LastWatchTime = s.now()
	c.Pages = preparePages(c.ID, c.Pages)
	return c
}

// preparePages gives every page a new identifier under chapterID and renumbers from 0.
func preparePages(chapterID string, pages []Page) []Page {
	prepared := make([]Page, len(pages))
	for i, p := range pages {
		prepared[i] = Page{
			ID:         uuid.New(),
			ChapterID:  chapterID,
			URL:        p.URL,
			PageNumber: i,
		}
	}
	return prepared
}
