// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangaverse/internal/core/author"
	"github.com/taibuivan/mangaverse/internal/core/chapter"
	"github.com/taibuivan/mangaverse/internal/core/genre"
	"github.com/taibuivan/mangaverse/internal/core/manga"
	"github.com/taibuivan/mangaverse/internal/core/reference"
	"github.com/taibuivan/mangaverse/internal/core/source"
	"github.com/taibuivan/mangaverse/internal/ingest"
	"github.com/taibuivan/mangaverse/internal/platform/config"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/logger"
	"github.com/taibuivan/mangaverse/internal/platform/migration"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
	redisstore "github.com/taibuivan/mangaverse/internal/platform/redis"
	"github.com/taibuivan/mangaverse/internal/scrape"
	"github.com/taibuivan/mangaverse/internal/scrape/mirror"
)

// # Process Runtime

// runtime holds the process-wide resources shared by every command.
type runtime struct {
	cfg  *config.Config
	log  *slog.Logger
	pool *pgxpool.Pool
	rdb  *goredis.Client
}

// loadRuntime loads configuration and the logger without touching the network.
func loadRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(os.Stdout, logger.Options{Debug: cfg.Debug, Console: cfg.IsDevelopment()})
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.Int("sources", len(cfg.Sources)),
	)

	return &runtime{cfg: cfg, log: log}, nil
}

/*
connect opens PostgreSQL, applies migrations and, when configured, opens Redis.

The startup context carries a deadline so misconfiguration is caught quickly
rather than hanging indefinitely.
*/
func (rt *runtime) connect(ctx context.Context) error {
	startupCtx, cancel := context.WithTimeout(ctx, constants.StartupTimeout)
	defer cancel()

	pool, err := pgstore.NewPool(startupCtx, rt.cfg.DatabaseURL, rt.log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	rt.pool = pool

	if err := migration.RunUp(rt.cfg.DatabaseURL, rt.cfg.MigrationPath, rt.log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if rt.cfg.RedisURL == "" {
		rt.log.Warn("redis_disabled", slog.String("reason", "REDIS_URL is empty, sync leases are process-local"))
		return nil
	}

	rdb, err := redisstore.NewClient(startupCtx, rt.cfg.RedisURL, rt.log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	rt.rdb = rdb
	return nil
}

// close releases every resource opened by connect.
func (rt *runtime) close() {
	if rt.rdb != nil {
		if err := rt.rdb.Close(); err != nil {
			rt.log.Error("redis_close_failed", slog.Any("error", err))
		}
	}
	if rt.pool != nil {
		rt.log.Info("closing_postgres_pool")
		rt.pool.Close()
	}
}

// # Domain Wiring

/*
buildRunner wires adapters, the reference cache and the engine into a runner.

A source whose registration or genre listing fails is logged and left out of
the cache. Its jobs then fail with UNKNOWN_SOURCE. Only a failure to load the
genre table itself aborts startup.
*/
func (rt *runtime) buildRunner(ctx context.Context) (*ingest.Runner, error) {
	cfg, log, pool := rt.cfg, rt.log, rt.pool

	// 1. Adapters
	adapters := make([]scrape.Adapter, 0, len(cfg.Sources))
	listers := make([]reference.GenreLister, 0, len(cfg.Sources))
	for _, spec := range cfg.SourceSpecs() {
		adapter := mirror.New(cfg.MirrorURL, spec.Name, spec.Priority, mirror.Options{
			Timeout: cfg.FetchTimeout,
			Retries: cfg.FetchRetries,
			RPS:     cfg.FetchRPS,
		}, log)
		adapters = append(adapters, adapter)
		listers = append(listers, adapter)
	}

	// 2. Reference cache
	builder := reference.NewBuilder(
		source.NewService(source.NewPostgresRepository(pool), log),
		genre.NewService(genre.NewPostgresRepository(pool), log),
		log,
	)
	cache, failures, err := builder.Build(ctx, listers)
	if err != nil {
		return nil, fmt.Errorf("build reference cache: %w", err)
	}
	for _, failure := range failures {
		log.Warn("source_excluded", slog.String("source", failure.Source), slog.Any("error", failure.Err))
	}

	// 3. Engine
	mangas := manga.NewPostgresRepository(pool)
	credits := author.NewService(author.NewPostgresRepository(pool), log)
	chapters := chapter.NewSynchronizer(chapter.NewPostgresRepository(pool), log,
		chapter.WithConcurrency(cfg.ChapterConcurrency),
	)

	// 4. Leases
	var leaser ingest.Leaser = ingest.NopLeaser{}
	if rt.rdb != nil {
		leaser = ingest.NewRedisLeaser(rt.rdb, cfg.LeaseTTL, log)
	}

	return ingest.NewRunner(ingest.Deps{
		Adapters: adapters,
		Cache:    cache,
		Reader:   manga.NewReader(mangas, credits, chapters, cache),
		Writer:   manga.NewWriter(mangas, credits, chapters, log),
		Syncer:   manga.NewSynchronizer(mangas, chapters, log),
		Stale:    mangas,
		Leaser:   leaser,
	}, log, ingest.WithConcurrency(cfg.SyncConcurrency)), nil
}
