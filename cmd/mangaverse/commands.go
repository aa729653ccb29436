// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"github.com/taibuivan/mangaverse/internal/api"
	"github.com/taibuivan/mangaverse/internal/ingest"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/migration"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
	redisstore "github.com/taibuivan/mangaverse/internal/platform/redis"
)

// # migrate

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending migrations, or roll back with --down",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "down", Usage: "roll back `N` migrations instead of applying"},
		},
		Action: func(c *cli.Context) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}

			if steps := c.Int("down"); steps > 0 {
				return migration.RunDown(rt.cfg.DatabaseURL, rt.cfg.MigrationPath, steps, rt.log)
			}
			return migration.RunUp(rt.cfg.DatabaseURL, rt.cfg.MigrationPath, rt.log)
		},
	}
}

// # sync

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "synchronise work URLs of one source",
		ArgsUsage: "[url...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Required: true, Usage: "source `NAME` the URLs belong to"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read URLs from `PATH`, one per line (- for stdin)"},
		},
		Action: func(c *cli.Context) error {
			urls := c.Args().Slice()
			if path := c.String("file"); path != "" {
				fromFile, err := readURLs(path)
				if err != nil {
					return err
				}
				urls = append(urls, fromFile...)
			}
			if len(urls) == 0 {
				return errors.New("sync: no URLs given")
			}

			jobs := make([]ingest.Job, len(urls))
			for i, url := range urls {
				jobs[i] = ingest.Job{Source: c.String("source"), URL: url}
			}

			return withRunner(c, func(ctx context.Context, runner *ingest.Runner) error {
				return printReport(c.App.Writer, runner.Run(ctx, jobs))
			})
		},
	}
}

// # resync

func resyncCommand() *cli.Command {
	return &cli.Command{
		Name:  "resync",
		Usage: "synchronise every stored work not watched recently",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "older-than", Usage: "staleness threshold (default STALE_AFTER)"},
		},
		Action: func(c *cli.Context) error {
			return withRunner(c, func(ctx context.Context, runner *ingest.Runner) error {
				report, err := resync(ctx, runner, c.Duration("older-than"))
				if err != nil {
					return err
				}
				return printReport(c.App.Writer, report)
			})
		},
	}
}

// # serve

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the ops server and the scheduled re-sync",
		Action: func(c *cli.Context) error {
			return withRunner(c, func(ctx context.Context, runner *ingest.Runner) error {
				rt := runtimeFrom(ctx)
				return serve(ctx, rt, runner)
			})
		},
	}
}

func serve(ctx context.Context, rt *runtime, runner *ingest.Runner) error {
	log := rt.log

	// 1. Scheduled re-sync
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := scheduler.AddFunc(rt.cfg.SyncSchedule, func() {
		if _, err := resync(ctx, runner, 0); err != nil {
			log.Error("scheduled_resync_failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", rt.cfg.SyncSchedule, err)
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// 2. Ops server
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, rt.pool) },
		CheckCache:    redisCheck(rt),
	}, log)

	server := api.NewServer(ctx, rt.cfg.OpsPort, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Runs:      api.NewRunsHandler(runner),
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 3. Block until signal or server error
	select {
	case <-ctx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		return fmt.Errorf("ops server: %w", err)
	}

	log.Info("shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	return server.Shutdown(constants.ShutdownTimeout)
}

// # Helpers

type runtimeKey struct{}

func runtimeFrom(ctx context.Context) *runtime {
	rt, _ := ctx.Value(runtimeKey{}).(*runtime)
	return rt
}

// withRunner boots the process, builds a runner and cancels fn on SIGINT/SIGTERM.
func withRunner(c *cli.Context, fn func(ctx context.Context, runner *ingest.Runner) error) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer rt.close()
	if err := rt.connect(ctx); err != nil {
		return err
	}

	runner, err := rt.buildRunner(ctx)
	if err != nil {
		return err
	}

	return fn(context.WithValue(ctx, runtimeKey{}, rt), runner)
}

func resync(ctx context.Context, runner *ingest.Runner, olderThan time.Duration) (*ingest.Report, error) {
	if olderThan <= 0 {
		olderThan = runtimeFrom(ctx).cfg.StaleAfter
	}

	jobs, err := runner.StaleJobs(ctx, olderThan)
	if err != nil {
		return nil, fmt.Errorf("list stale works: %w", err)
	}
	return runner.Run(ctx, jobs), nil
}

func redisCheck(rt *runtime) func(ctx context.Context) error {
	if rt.rdb == nil {
		return nil
	}
	return func(ctx context.Context) error { return redisstore.Ping(ctx, rt.rdb) }
}

func readURLs(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open url list: %w", err)
		}
		defer f.Close()
		r = f
	}

	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func printReport(w io.Writer, report *ingest.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
