// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"
	"fmt"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/internal/platform/dberr"
	"github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on crawler.source.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByName performs a direct lookup on the unique name column.
func (repository *PostgresRepository) FindByName(ctx context.Context, name string) (*Source, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CrawlerSource.ID, schema.CrawlerSource.Name, schema.CrawlerSource.Priority,
		schema.CrawlerSource.Table,
		schema.CrawlerSource.Name,
	)

	src := &Source{}
	err := repository.db.QueryRow(ctx, query, name).Scan(&src.ID, &src.Name, &src.Priority)
	if err != nil {
		return nil, dberr.Wrap(err, "source", "find_source")
	}

	return src, nil
}

// Create relies on the unique constraint on name to reject duplicate first inserts.
func (repository *PostgresRepository) Create(ctx context.Context, src *Source) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.CrawlerSource.Table,
		schema.CrawlerSource.ID, schema.CrawlerSource.Name, schema.CrawlerSource.Priority,
	)

	if _, err := repository.db.Exec(ctx, query, src.ID, src.Name, src.Priority); err != nil {
		return dberr.Wrap(err, "source", "insert_source")
	}

	return nil
}

// List returns all sources, most trusted first.
func (repository *PostgresRepository) List(ctx context.Context) ([]*Source, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s ORDER BY %s ASC, %s ASC`,
		schema.CrawlerSource.ID, schema.CrawlerSource.Name, schema.CrawlerSource.Priority,
		schema.CrawlerSource.Table,
		schema.CrawlerSource.Priority, schema.CrawlerSource.Name,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "source", "list_sources")
	}
	defer rows.Close()

	var sources []*Source
	for rows.Next() {
		src := &Source{}
		if err := rows.Scan(&src.ID, &src.Name, &src.Priority); err != nil {
			return nil, dberr.Wrap(err, "source", "scan_source")
		}
		sources = append(sources, src)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "source", "list_sources")
	}

	return sources, nil
}
