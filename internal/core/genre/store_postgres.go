// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	"github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on core.genre.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
InsertIgnore queues one INSERT .. ON CONFLICT DO NOTHING per genre and sends
them as a single pipelined batch.
*/
func (repository *PostgresRepository) InsertIgnore(ctx context.Context, genres []Genre) error {
	if len(genres) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT (%s) DO NOTHING`,
		schema.CoreGenre.Table,
		schema.CoreGenre.ID, schema.CoreGenre.Name,
		schema.CoreGenre.Name,
	)

	batch := &pgx.Batch{}
	for _, g := range genres {
		batch.Queue(query, g.ID, g.Name)
	}

	if err := postgres.ExecBatch(ctx, repository.db, batch, "insert genres"); err != nil {
		return dberr.Wrap(err, "genre", "insert_genres")
	}

	return nil
}

// ListAll loads every genre ordered by name.
func (repository *PostgresRepository) ListAll(ctx context.Context) ([]Genre, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s`,
		schema.CoreGenre.ID, schema.CoreGenre.Name,
		schema.CoreGenre.Table,
		schema.CoreGenre.Name,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "genre", "list_genres")
	}

	genres, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Genre])
	if err != nil {
		return nil, dberr.Wrap(err, "genre", "scan_genres")
	}

	return genres, nil
}
