// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/mangaverse/internal/core/source"
	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	"github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
//
// It works on any [postgres.DB], so the same code serves the pool and the
// election transaction opened by [PostgresRepository.WithinTx].
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a PostgreSQL backed manga store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Lookups

// selectManga is the row projection shared by the single-row lookups.
func selectManga(where string) string {
	m := schema.CoreManga
	s := schema.CrawlerSource

	columns := []string{
		"m." + m.ID, "m." + m.LinkedID, "m." + m.IsMain, "m." + m.IsListed,
		"m." + m.Name, "m." + m.CoverURL, "m." + m.URL, "m." + m.LastUpdated,
		"m." + m.Status, "m." + m.Description, "m." + m.LastWatchTime,
		"m." + m.PublicID, "m." + m.IsOld, "s." + s.ID, "s." + s.Name,
	}

	return fmt.Sprintf(`SELECT %s FROM %s m JOIN %s s ON s.%s = m.%s WHERE m.%s = $1`,
		strings.Join(columns, ", "),
		m.Table, s.Table, s.ID, m.SourceID,
		where,
	)
}

func scanManga(row pgx.Row) (*Manga, error) {
	m := &Manga{Source: &source.Source{}}
	var status string
	err := row.Scan(
		&m.ID, &m.LinkedID, &m.IsMain, &m.IsListed,
		&m.Name, &m.CoverURL, &m.URL, &m.LastUpdated,
		&status, &m.Description, &m.LastWatchTime,
		&m.PublicID, &m.IsOld, &m.Source.ID, &m.Source.Name,
	)
	if err != nil {
		return nil, err
	}
	m.Status = Status(status)
	return m, nil
}

// FindByURL joins the owning source so its name can be resolved by the caller.
func (repository *PostgresRepository) FindByURL(ctx context.Context, url string) (*Manga, error) {
	m, err := scanManga(repository.db.QueryRow(ctx, selectManga(schema.CoreManga.URL), url))
	if err != nil {
		return nil, dberr.Wrap(err, "manga", "find_manga_by_url")
	}
	return m, nil
}

// FindByID joins the owning source so its name can be resolved by the caller.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Manga, error) {
	m, err := scanManga(repository.db.QueryRow(ctx, selectManga(schema.CoreManga.ID), id))
	if err != nil {
		return nil, dberr.Wrap(err, "manga", "find_manga_by_id")
	}
	return m, nil
}

// ExistsByURL uses EXISTS so no row data crosses the wire.
func (repository *PostgresRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CoreManga.Table, schema.CoreManga.URL,
	)

	var exists bool
	if err := repository.db.QueryRow(ctx, query, url).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "manga", "exists_manga")
	}
	return exists, nil
}

// ListTitles reads the titles of a linked group.
func (repository *PostgresRepository) ListTitles(ctx context.Context, linkedID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		schema.CoreTitle.Title, schema.CoreTitle.Table, schema.CoreTitle.LinkedID, schema.CoreTitle.Title,
	)
	return repository.listStrings(ctx, "title", "list_titles", query, linkedID)
}

// ListGenreNames resolves a work's genre links to names.
func (repository *PostgresRepository) ListGenreNames(ctx context.Context, mangaID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT g.%s
		FROM %s mg
		JOIN %s g ON g.%s = mg.%s
		WHERE mg.%s = $1
		ORDER BY g.%s
	`,
		schema.CoreGenre.Name,
		schema.CoreMangaGenre.Table,
		schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreMangaGenre.GenreID,
		schema.CoreMangaGenre.MangaID,
		schema.CoreGenre.Name,
	)
	return repository.listStrings(ctx, "genre", "list_manga_genres", query, mangaID)
}

// ListStaleURLs feeds the periodic re-sync.
func (repository *PostgresRepository) ListStaleURLs(ctx context.Context, sourceID string, cutoff time.Time, limit int) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s < $2 AND NOT %s
		ORDER BY %s ASC
		LIMIT $3
	`,
		schema.CoreManga.URL, schema.CoreManga.Table,
		schema.CoreManga.SourceID, schema.CoreManga.LastWatchTime, schema.CoreManga.IsOld,
		schema.CoreManga.LastWatchTime,
	)
	return repository.listStrings(ctx, "manga", "list_stale_manga", query, sourceID, cutoff, limit)
}

// # Identity & Election

// Insert writes the work row. Relations are written by their own methods.
func (repository *PostgresRepository) Insert(ctx context.Context, m *Manga) error {
	t := schema.CoreManga
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, t.Table, strings.Join(t.Columns(), ", "))

	_, err := repository.db.Exec(ctx, query,
		m.ID, m.LinkedID, m.IsMain, m.IsListed, m.Name, m.CoverURL, m.URL, m.LastUpdated,
		string(m.Status), m.Description, m.LastWatchTime, m.PublicID, m.IsOld, m.Source.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "manga", "insert_manga")
	}

	return nil
}

/*
FindMainCandidate looks for a main row whose linked group shares a title.

Description: LIMIT 1 means that when unrelated series share a title the first
match wins. That limitation is accepted.
*/
func (repository *PostgresRepository) FindMainCandidate(ctx context.Context, titles []string) (*Candidate, error) {
	query := fmt.Sprintf(`
		SELECT m.%s, m.%s, s.%s
		FROM %s m
		JOIN %s s ON s.%s = m.%s
		WHERE m.%s
		  AND EXISTS (
			SELECT 1 FROM %s t
			WHERE t.%s = m.%s AND t.%s = ANY($1)
		  )
		LIMIT 1
	`,
		schema.CoreManga.ID, schema.CoreManga.LinkedID, schema.CrawlerSource.Priority,
		schema.CoreManga.Table,
		schema.CrawlerSource.Table, schema.CrawlerSource.ID, schema.CoreManga.SourceID,
		schema.CoreManga.IsMain,
		schema.CoreTitle.Table,
		schema.CoreTitle.LinkedID, schema.CoreManga.LinkedID, schema.CoreTitle.Title,
	)

	candidate := &Candidate{}
	err := repository.db.QueryRow(ctx, query, titles).Scan(&candidate.MangaID, &candidate.LinkedID, &candidate.Priority)
	if err != nil {
		return nil, dberr.Wrap(err, "main candidate", "find_main_candidate")
	}

	return candidate, nil
}

// SetLinkedID moves a row into another linked group.
func (repository *PostgresRepository) SetLinkedID(ctx context.Context, mangaID, linkedID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.LinkedID, schema.CoreManga.ID,
	)
	return repository.exec(ctx, "set_linked_id", query, mangaID, linkedID)
}

// DemoteGroup clears every main flag in a linked group.
func (repository *PostgresRepository) DemoteGroup(ctx context.Context, linkedID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.IsMain, schema.CoreManga.LinkedID,
	)
	return repository.exec(ctx, "demote_group", query, linkedID)
}

// Promote marks one row as main.
func (repository *PostgresRepository) Promote(ctx context.Context, mangaID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.IsMain, schema.CoreManga.ID,
	)
	return repository.exec(ctx, "promote_manga", query, mangaID)
}

// # Relations

/*
InsertTitles inserts each title only when the exact (title, linkedid) pair is absent.

Description: The NOT EXISTS guard keeps repeated runs from duplicating titles;
ON CONFLICT covers the race between two runs checking at the same time.
*/
func (repository *PostgresRepository) InsertTitles(ctx context.Context, linkedID string, titles []string) error {
	t := schema.CoreTitle
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1::text, $2::uuid
		WHERE NOT EXISTS (SELECT 1 FROM %s WHERE %s = $1::text AND %s = $2::uuid)
		ON CONFLICT DO NOTHING
	`, t.Table, t.Title, t.LinkedID, t.Table, t.Title, t.LinkedID)

	batch := &pgx.Batch{}
	for _, title := range titles {
		batch.Queue(query, title, linkedID)
	}

	if err := postgres.ExecBatch(ctx, repository.db, batch, "insert titles"); err != nil {
		return dberr.Wrap(err, "title", "insert_titles")
	}
	return nil
}

// InsertGenres bulk-links genres to a work.
func (repository *PostgresRepository) InsertGenres(ctx context.Context, mangaID string, genreIDs []string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.CoreMangaGenre.Table, schema.CoreMangaGenre.MangaID, schema.CoreMangaGenre.GenreID,
	)

	batch := &pgx.Batch{}
	for _, id := range genreIDs {
		batch.Queue(query, mangaID, id)
	}

	if err := postgres.ExecBatch(ctx, repository.db, batch, "insert manga genres"); err != nil {
		return dberr.Wrap(err, "genre", "insert_manga_genres")
	}
	return nil
}

// ReplaceGenres clears and re-inserts a work's genre links as two independent statements.
func (repository *PostgresRepository) ReplaceGenres(ctx context.Context, mangaID string, genreIDs []string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreMangaGenre.Table, schema.CoreMangaGenre.MangaID,
	)
	if err := repository.exec(ctx, "clear_manga_genres", query, mangaID); err != nil {
		return err
	}
	return repository.InsertGenres(ctx, mangaID, genreIDs)
}

// # Synchronisation

// UpdateMetadata rewrites every metadata column in one statement.
func (repository *PostgresRepository) UpdateMetadata(ctx context.Context, m *Manga) error {
	t := schema.CoreManga
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6 WHERE %s = $1`,
		t.Table, t.Name, t.CoverURL, t.LastUpdated, t.Status, t.Description, t.ID,
	)
	return repository.exec(ctx, "update_manga", query,
		m.ID, m.Name, m.CoverURL, m.LastUpdated, string(m.Status), m.Description,
	)
}

// SaveListing upserts the browse projection.
func (repository *PostgresRepository) SaveListing(ctx context.Context, listing Listing) error {
	t := schema.CoreMangaListing
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s
	`,
		t.Table, t.MangaID, t.Name, t.CoverURL, t.Genres, t.Description,
		t.MangaID,
		t.Name, t.Name, t.CoverURL, t.CoverURL, t.Genres, t.Genres, t.Description, t.Description,
	)
	return repository.exec(ctx, "save_listing", query,
		listing.MangaID, listing.Name, listing.CoverURL, listing.Genres, listing.Description,
	)
}

// TouchWatchTime stamps the last successful synchronisation.
func (repository *PostgresRepository) TouchWatchTime(ctx context.Context, mangaID string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.CoreManga.Table, schema.CoreManga.LastWatchTime, schema.CoreManga.ID,
	)
	return repository.exec(ctx, "touch_watch_time", query, mangaID, at)
}

// # Transactions

// WithinTx binds a fresh repository to one transaction for the duration of fn.
func (repository *PostgresRepository) WithinTx(ctx context.Context, fn func(Repository) error) error {
	return postgres.InTx(ctx, repository.db, func(tx pgx.Tx) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// # Internal Helpers

func (repository *PostgresRepository) exec(ctx context.Context, action, query string, args ...any) error {
	if _, err := repository.db.Exec(ctx, query, args...); err != nil {
		return dberr.Wrap(err, "manga", action)
	}
	return nil
}

func (repository *PostgresRepository) listStrings(ctx context.Context, resource, action, query string, args ...any) ([]string, error) {
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resource, action)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, resource, action)
	}
	return values, nil
}
