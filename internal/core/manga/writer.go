// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/ctxutil"
	"github.com/taibuivan/mangaverse/pkg/slug"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// Writer is the Work Identity Resolver & Writer. It handles the first sync of a URL.
type Writer struct {
	repo     Repository
	credits  Crediter
	chapters ChapterStore
	settings settings
	logger   *slog.Logger
}

// NewWriter constructs a new [Writer].
func NewWriter(repo Repository, credits Crediter, chapters ChapterStore, logger *slog.Logger, opts ...Option) *Writer {
	return &Writer{
		repo:     repo,
		credits:  credits,
		chapters: chapters,
		settings: newSettings(opts),
		logger:   logger,
	}
}

// PublicID derives the external identifier of a new work from its name.
func PublicID(name string) string {
	base := slug.From(name)
	if base == "" {
		base = "manga"
	}
	return base + "-" + uuid.Short()
}

/*
Insert stores a work whose URL is not yet known and places it in a linked group.

Sequence:
 1. New identifiers: work id, tentative linked id, public id.
 2. Author casing policy.
 3. Work row, provisionally non-main.
 4. Main candidate lookup by shared title.
 5. Election. Only the take-over branch runs in a transaction.
 6. Titles, insert-if-absent under the final linked id.
 7. Genre links and credits.
 8. Chapters and pages.
 9. Listing row.

Steps other than the take-over are independent statements: a failure leaves the
work partially written.

Returns:
  - Decision: Where the work landed in the election
  - error: STORAGE_FAILURE from any step, PARSE_FAILURE when m has no source
*/
func (w *Writer) Insert(ctx context.Context, m *Manga) (Decision, error) {
	if m.Source == nil || m.Source.ID == "" {
		return DecisionStandalone, apperr.Parse("work has no resolved source")
	}

	// 1. Identity
	m.ID = uuid.New()
	m.LinkedID = uuid.New()
	if m.PublicID == "" {
		m.PublicID = PublicID(m.Name)
	}
	m.IsMain = false
	m.LastWatchTime = w.settings.now()

	// 3. Provisional row
	if err := w.repo.Insert(ctx, m); err != nil {
		return DecisionStandalone, err
	}

	// 4-5. Identity match and election
	decision, err := w.elect(ctx, m)
	if err != nil {
		return decision, err
	}

	// 6. Titles
	if err := w.repo.InsertTitles(ctx, m.LinkedID, m.Titles); err != nil {
		return decision, err
	}

	// 7. Relations
	if err := w.repo.InsertGenres(ctx, m.ID, m.GenreIDs()); err != nil {
		return decision, err
	}

	// 2. Casing is applied by the crediter; keep the stored spelling on m.
	m.Authors, m.Artists, err = w.credits.Credit(ctx, m.ID, m.Authors, m.Artists)
	if err != nil {
		return decision, err
	}

	// 8. Chapters
	m.Chapters, err = w.chapters.Insert(ctx, m.ID, m.Chapters)
	if err != nil {
		return decision, err
	}

	// 9. Listing
	if err := w.repo.SaveListing(ctx, NewListing(m)); err != nil {
		return decision, err
	}

	ctxutil.GetLogger(ctx).Info("manga_inserted",
		slog.String("manga_id", m.ID),
		slog.String("linked_id", m.LinkedID),
		slog.String("source", m.Source.Name),
		slog.String("decision", decision.String()),
		slog.Int("chapters", len(m.Chapters)),
	)

	return decision, nil
}

/*
InsertIfNotExists inserts m unless a row with its URL is already stored.

Returns:
  - bool: true when m was inserted
*/
func (w *Writer) InsertIfNotExists(ctx context.Context, m *Manga) (bool, error) {
	exists, err := w.repo.ExistsByURL(ctx, m.URL)
	if err != nil {
		return false, err
	}
	if exists {
		ctxutil.GetLogger(ctx).Debug("manga_already_stored", slog.String("url", m.URL))
		return false, nil
	}

	if _, err := w.Insert(ctx, m); err != nil {
		return false, err
	}
	return true, nil
}

// elect finds the title candidate, decides, and applies the decision to storage and to m.
func (w *Writer) elect(ctx context.Context, m *Manga) (Decision, error) {
	var candidate *Candidate
	if len(m.Titles) > 0 {
		found, err := w.repo.FindMainCandidate(ctx, m.Titles)
		switch {
		case err == nil:
			candidate = found
		case !apperr.IsNotFound(err):
			return DecisionStandalone, err
		}
	}

	decision := Elect(m.Source.Priority, candidate)

	switch decision {
	case DecisionStandalone, DecisionSameTrust:
		if err := w.repo.Promote(ctx, m.ID); err != nil {
			return decision, err
		}

	case DecisionFollow:
		if err := w.repo.SetLinkedID(ctx, m.ID, candidate.LinkedID); err != nil {
			return decision, err
		}

	case DecisionTakeOver:
		err := w.repo.WithinTx(ctx, func(tx Repository) error {
			if err := tx.SetLinkedID(ctx, m.ID, candidate.LinkedID); err != nil {
				return err
			}
			if err := tx.DemoteGroup(ctx, candidate.LinkedID); err != nil {
				return err
			}
			return tx.Promote(ctx, m.ID)
		})
		if err != nil {
			return decision, err
		}
	}

	if decision.JoinsGroup() {
		m.LinkedID = candidate.LinkedID
	}
	m.IsMain = decision.BecomesMain()

	if candidate != nil {
		w.logger.Debug("manga_election",
			slog.String("manga_id", m.ID),
			slog.String("candidate_id", candidate.MangaID),
			slog.Int("priority", m.Source.Priority),
			slog.Int("candidate_priority", candidate.Priority),
			slog.String("decision", decision.String()),
		)
	}

	return decision, nil
}
