// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	"github.com/taibuivan/mangaverse/internal/platform/postgres"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// PostgresRepository implements [Repository] on core.author and its junctions.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InsertIgnore batches one insert-or-ignore per name.
func (repository *PostgresRepository) InsertIgnore(ctx context.Context, names []string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT (%s) DO NOTHING`,
		schema.CoreAuthor.Table,
		schema.CoreAuthor.ID, schema.CoreAuthor.Name,
		schema.CoreAuthor.Name,
	)

	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue(query, uuid.New(), name)
	}

	if err := postgres.ExecBatch(ctx, repository.db, batch, "insert authors"); err != nil {
		return dberr.Wrap(err, "author", "insert_authors")
	}

	return nil
}

/*
Link inserts junction rows by name lookup in a single statement.

Description: Names that are missing from core.author are skipped by the join.
*/
func (repository *PostgresRepository) Link(ctx context.Context, role Role, mangaID string, names []string) error {
	if len(names) == 0 {
		return nil
	}

	junction := role.junction()
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1::uuid, a.%s FROM %s a WHERE a.%s = ANY($2)
		ON CONFLICT DO NOTHING
	`,
		junction.Table, junction.MangaID, junction.AuthorID,
		schema.CoreAuthor.ID, schema.CoreAuthor.Table, schema.CoreAuthor.Name,
	)

	if _, err := repository.db.Exec(ctx, query, mangaID, names); err != nil {
		return dberr.Wrap(err, role.String(), "link_"+role.String()+"s")
	}

	return nil
}

// ListByManga resolves junction rows back to names.
func (repository *PostgresRepository) ListByManga(ctx context.Context, role Role, mangaID string) ([]string, error) {
	junction := role.junction()
	query := fmt.Sprintf(`
		SELECT a.%s
		FROM %s j
		JOIN %s a ON a.%s = j.%s
		WHERE j.%s = $1
		ORDER BY a.%s
	`,
		schema.CoreAuthor.Name,
		junction.Table,
		schema.CoreAuthor.Table, schema.CoreAuthor.ID, junction.AuthorID,
		junction.MangaID,
		schema.CoreAuthor.Name,
	)

	rows, err := repository.db.Query(ctx, query, mangaID)
	if err != nil {
		return nil, dberr.Wrap(err, role.String(), "list_"+role.String()+"s")
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, role.String(), "scan_"+role.String()+"s")
	}

	return names, nil
}
