// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangaverse/internal/core/chapter"
	"github.com/taibuivan/mangaverse/internal/platform/ctxutil"
)

// SyncReport summarises one work synchronisation.
type SyncReport struct {
	Change   Change
	Chapters chapter.Report
}

// Synchronizer is the Work Synchronizer. It handles every sync of a URL after the first.
type Synchronizer struct {
	repo     Repository
	chapters ChapterStore
	settings settings
	logger   *slog.Logger
}

// NewSynchronizer constructs a new [Synchronizer].
func NewSynchronizer(repo Repository, chapters ChapterStore, logger *slog.Logger, opts ...Option) *Synchronizer {
	return &Synchronizer{
		repo:     repo,
		chapters: chapters,
		settings: newSettings(opts),
		logger:   logger,
	}
}

/*
Sync applies the minimal set of updates that bring stored in line with fresh.

Statements run in a strict order on the caller's goroutine:

 1. Metadata, all fields in one statement.
 2. Listing row.
 3. Genre links, delete then bulk insert.
 4. Titles missing from the linked group.
 5. Chapters and pages.
 6. Last-watch stamp, always.

Failures of individual chapters are reported in the result and do not stop the
sync. Any other failure aborts the remaining steps, including the stamp.
*/
func (s *Synchronizer) Sync(ctx context.Context, stored, fresh *Manga) (SyncReport, error) {
	change := Compare(stored, fresh)
	report := SyncReport{Change: change}

	// Fresh carries no identity; stored is the source of truth for it.
	fresh.ID = stored.ID
	fresh.LinkedID = stored.LinkedID

	if change.Has(ChangeMetadata) {
		if err := s.repo.UpdateMetadata(ctx, fresh); err != nil {
			return report, err
		}
	}

	if change.Has(ChangeListing) {
		if err := s.repo.SaveListing(ctx, NewListing(fresh)); err != nil {
			return report, err
		}
	}

	if change.Has(ChangeGenres) {
		if err := s.repo.ReplaceGenres(ctx, stored.ID, fresh.GenreIDs()); err != nil {
			return report, err
		}
	}

	if change.Has(ChangeTitles) {
		missing := MissingTitles(stored.Titles, fresh.Titles)
		if err := s.repo.InsertTitles(ctx, stored.LinkedID, missing); err != nil {
			return report, err
		}
	}

	chapters, err := s.chapters.Sync(ctx, stored.ID, stored.Chapters, fresh.Chapters)
	report.Chapters = chapters
	if err != nil {
		return report, err
	}

	if err := s.repo.TouchWatchTime(ctx, stored.ID, s.settings.now()); err != nil {
		return report, err
	}

	ctxutil.GetLogger(ctx).Info("manga_synced",
		slog.String("manga_id", stored.ID),
		slog.String("change", change.String()),
		slog.Int("chapters_appended", chapters.Appended),
		slog.Int("chapters_removed", chapters.Removed),
		slog.Int("chapter_failures", len(chapters.Failures)),
	)

	return report, nil
}
