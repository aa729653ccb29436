// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	"github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on core.chapter and core.chapterpage.
//
// Bulk writes use pgx.Batch pipelining so a work with hundreds of chapters
// costs one round-trip per table instead of one per row.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a PostgreSQL backed chapter store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
ListByManga retrieves all chapters of a work, then hydrates their pages with a
second query keyed on the chapter ids.
*/
func (repository *PostgresRepository) ListByManga(ctx context.Context, mangaID string) ([]Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.CoreChapter.ID, schema.CoreChapter.MangaID, schema.CoreChapter.ChapterName,
		schema.CoreChapter.ChapterNumber, schema.CoreChapter.UpdatedAt,
		schema.CoreChapter.SequenceNumber, schema.CoreChapter.LastWatchTime,
		schema.CoreChapter.Table,
		schema.CoreChapter.MangaID,
		schema.CoreChapter.SequenceNumber,
	)

	rows, err := repository.db.Query(ctx, query, mangaID)
	if err != nil {
		return nil, dberr.Wrap(err, "chapter", "list_chapters")
	}
	defer rows.Close()

	var chapters []Chapter
	index := make(map[string]int)
	for rows.Next() {
		var chapter Chapter
		err := rows.Scan(
			&chapter.ID,
			&chapter.MangaID,
			&chapter.Name,
			&chapter.Number,
			&chapter.UpdatedAt,
			&chapter.SequenceNumber,
			&chapter.LastWatchTime,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "chapter", "scan_chapter")
		}
		index[chapter.ID] = len(chapters)
		chapters = append(chapters, chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "chapter", "list_chapters")
	}

	if len(chapters) == 0 {
		return chapters, nil
	}

	ids := make([]string, len(chapters))
	for i := range chapters {
		ids[i] = chapters[i].ID
	}

	pageQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1)
		ORDER BY %s, %s ASC
	`,
		schema.CoreChapterPage.ID, schema.CoreChapterPage.ChapterID,
		schema.CoreChapterPage.URL, schema.CoreChapterPage.PageNumber,
		schema.CoreChapterPage.Table,
		schema.CoreChapterPage.ChapterID,
		schema.CoreChapterPage.ChapterID, schema.CoreChapterPage.PageNumber,
	)

	pageRows, err := repository.db.Query(ctx, pageQuery, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "page", "list_pages")
	}

	pages, err := pgx.CollectRows(pageRows, pgx.RowToStructByPos[Page])
	if err != nil {
		return nil, dberr.Wrap(err, "page", "scan_pages")
	}

	for _, page := range pages {
		position := index[page.ChapterID]
		chapters[position].Pages = append(chapters[position].Pages, page)
	}

	return chapters, nil
}

// UpdateMetadata rewrites the descriptive columns, keeping the identifier and position.
func (repository *PostgresRepository) UpdateMetadata(ctx context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		schema.CoreChapter.Table,
		schema.CoreChapter.ChapterName, schema.CoreChapter.ChapterNumber, schema.CoreChapter.UpdatedAt,
		schema.CoreChapter.ID,
	)

	if _, err := repository.db.Exec(ctx, query, chapter.ID, chapter.Name, chapter.Number, chapter.UpdatedAt); err != nil {
		return dberr.Wrap(err, "chapter", "update_chapter")
	}

	return nil
}

// ReplacePages clears the chapter's pages and inserts the fresh list.
func (repository *PostgresRepository) ReplacePages(ctx context.Context, chapterID string, pages []Page) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreChapterPage.Table, schema.CoreChapterPage.ChapterID,
	)

	if _, err := repository.db.Exec(ctx, query, chapterID); err != nil {
		return dberr.Wrap(err, "page", "delete_pages")
	}

	return repository.insertPages(ctx, pages)
}

// InsertWithPages pipelines the chapter rows, then the page rows.
func (repository *PostgresRepository) InsertWithPages(ctx context.Context, chapters []Chapter) error {
	if len(chapters) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		schema.CoreChapter.Table,
		schema.CoreChapter.ID, schema.CoreChapter.MangaID, schema.CoreChapter.ChapterName,
		schema.CoreChapter.ChapterNumber, schema.CoreChapter.UpdatedAt,
		schema.CoreChapter.SequenceNumber, schema.CoreChapter.LastWatchTime,
	)

	batch := &pgx.Batch{}
	var pages []Page
	for _, c := range chapters {
		batch.Queue(query, c.ID, c.MangaID, c.Name, c.Number, c.UpdatedAt, c.SequenceNumber, c.LastWatchTime)
		pages = append(pages, c.Pages...)
	}

	if err := postgres.ExecBatch(ctx, repository.db, batch, "insert chapters"); err != nil {
		return dberr.Wrap(err, "chapter", "insert_chapters")
	}

	return repository.insertPages(ctx, pages)
}

// DeleteWithPages removes pages first so the chapter rows have no dependents.
func (repository *PostgresRepository) DeleteWithPages(ctx context.Context, chapterIDs []string) error {
	if len(chapterIDs) == 0 {
		return nil
	}

	pageQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = ANY($1)`,
		schema.CoreChapterPage.Table, schema.CoreChapterPage.ChapterID,
	)
	if _, err := repository.db.Exec(ctx, pageQuery, chapterIDs); err != nil {
		return dberr.Wrap(err, "page", "delete_pages")
	}

	chapterQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = ANY($1)`,
		schema.CoreChapter.Table, schema.CoreChapter.ID,
	)
	if _, err := repository.db.Exec(ctx, chapterQuery, chapterIDs); err != nil {
		return dberr.Wrap(err, "chapter", "delete_chapters")
	}

	return nil
}

func (repository *PostgresRepository) insertPages(ctx context.Context, pages []Page) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.CoreChapterPage.Table,
		schema.CoreChapterPage.ID, schema.CoreChapterPage.ChapterID,
		schema.CoreChapterPage.URL, schema.CoreChapterPage.PageNumber,
	)

	batch := &pgx.Batch{}
	for _, p := range pages {
		batch.Queue(query, p.ID, p.ChapterID, p.URL, p.PageNumber)
	}

	if err := postgres.ExecBatch(ctx, repository.db, batch, "insert pages"); err != nil {
		return dberr.Wrap(err, "page", "insert_pages")
	}

	return nil
}
