// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ingest orchestrates synchronisation runs.

A run takes a list of jobs (source + URL) and, for each, scrapes the work,
normalises it, and routes it to the Writer when the URL is new or to the
Synchronizer otherwise. Jobs run concurrently and fail independently.
*/
package ingest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/mangaverse/internal/core/manga"
	"github.com/taibuivan/mangaverse/internal/core/reference"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/ctxutil"
	"github.com/taibuivan/mangaverse/internal/scrape"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// WorkReader loads a stored work by URL.
type WorkReader interface {
	FindByURL(ctx context.Context, url string) (*manga.Manga, error)
}

// WorkWriter stores works seen for the first time.
type WorkWriter interface {
	InsertIfNotExists(ctx context.Context, m *manga.Manga) (bool, error)
}

// WorkSyncer reconciles a stored work with a fresh scrape.
type WorkSyncer interface {
	Sync(ctx context.Context, stored, fresh *manga.Manga) (manga.SyncReport, error)
}

// StaleLister lists stored URLs of a source not watched since cutoff.
type StaleLister interface {
	ListStaleURLs(ctx context.Context, sourceID string, cutoff time.Time, limit int) ([]string, error)
}

// Deps bundles the collaborators of a [Runner].
type Deps struct {
	Adapters []scrape.Adapter
	Cache    *reference.Cache
	Reader   WorkReader
	Writer   WorkWriter
	Syncer   WorkSyncer
	Stale    StaleLister
	Leaser   Leaser
}

// Runner executes synchronisation runs.
type Runner struct {
	adapters    map[string]scrape.Adapter
	deps        Deps
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
	latest      latest
}

// Option configures a [Runner].
type Option func(*Runner)

// WithConcurrency bounds how many jobs run at once.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner constructs a new [Runner]. A nil Leaser means [NopLeaser].
func NewRunner(deps Deps, logger *slog.Logger, opts ...Option) *Runner {
	if deps.Leaser == nil {
		deps.Leaser = NopLeaser{}
	}

	r := &Runner{
		adapters:    make(map[string]scrape.Adapter, len(deps.Adapters)),
		deps:        deps,
		concurrency: 4,
		now:         time.Now,
		logger:      logger,
	}
	for _, a := range deps.Adapters {
		r.adapters[a.Source()] = a
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

/*
Run processes jobs and returns the run's report.

Description: Jobs run on at most the configured number of goroutines. A failing
job is logged with its error kind and recorded in the report. It never stops
the other jobs. The report is also kept as the latest run for the ops server.
*/
func (r *Runner) Run(ctx context.Context, jobs []Job) *Report {
	runID := uuid.New()
	logger := r.logger.With(slog.String("run_id", runID))
	ctx = ctxutil.WithLogger(ctxutil.WithRunID(ctx, runID), logger)

	report := &Report{RunID: runID, StartedAt: r.now(), Results: make([]Result, len(jobs))}
	logger.Info("sync_run_started", slog.Int("jobs", len(jobs)))

	var group errgroup.Group
	group.SetLimit(r.concurrency)

	for i, job := range jobs {
		group.Go(func() error {
			report.Results[i] = r.process(ctx, job)
			return nil
		})
	}
	_ = group.Wait()

	report.FinishedAt = r.now()
	report.tally()
	r.latest.set(report)

	logger.Info("sync_run_finished",
		slog.Int("inserted", report.Inserted),
		slog.Int("synced", report.Synced),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report
}

// Latest returns the report of the most recent finished run, or nil.
func (r *Runner) Latest() *Report {
	return r.latest.get()
}

/*
StaleJobs lists a job for every stored work not watched within olderThan.

Only sources present in both the cache and the adapter set are considered. Each
source contributes at most [constants.StaleBatchLimit] jobs, oldest first.
*/
func (r *Runner) StaleJobs(ctx context.Context, olderThan time.Duration) ([]Job, error) {
	cutoff := r.now().Add(-olderThan)

	var jobs []Job
	for _, src := range r.deps.Cache.Sources() {
		if _, ok := r.adapters[src.Name]; !ok {
			continue
		}
		urls, err := r.deps.Stale.ListStaleURLs(ctx, src.ID, cutoff, constants.StaleBatchLimit)
		if err != nil {
			return nil, err
		}
		for _, url := range urls {
			jobs = append(jobs, Job{Source: src.Name, URL: url})
		}
	}
	return jobs, nil
}

func (r *Runner) process(ctx context.Context, job Job) Result {
	started := r.now()
	result := Result{Job: job}

	outcome, err := r.sync(ctx, job, &result)
	result.Duration = r.now().Sub(started)

	if err != nil {
		result.Outcome = OutcomeFailed
		result.Kind = apperr.KindOf(err)
		result.Error = err.Error()

		ctxutil.GetLogger(ctx).Error("sync_job_failed",
			slog.String("source", job.Source),
			slog.String("url", job.URL),
			slog.String("kind", string(result.Kind)),
			slog.Any("error", err),
		)
		return result
	}

	result.Outcome = outcome
	return result
}

func (r *Runner) sync(ctx context.Context, job Job, result *Result) (Outcome, error) {
	adapter, ok := r.adapters[job.Source]
	if !ok {
		return OutcomeFailed, apperr.UnknownSource(job.Source)
	}
	if _, ok := r.deps.Cache.Source(job.Source); !ok {
		return OutcomeFailed, apperr.UnknownSource(job.Source)
	}

	release, ok, err := r.deps.Leaser.Acquire(ctx, job.URL)
	if err != nil {
		return OutcomeFailed, apperr.Internal(err)
	}
	if !ok {
		ctxutil.GetLogger(ctx).Info("sync_job_leased_elsewhere", slog.String("url", job.URL))
		return OutcomeSkipped, nil
	}
	defer release()

	record, err := adapter.Fetch(ctx, job.URL)
	if err != nil {
		return OutcomeFailed, err
	}

	fresh, err := scrape.Normalize(record, r.deps.Cache)
	if err != nil {
		return OutcomeFailed, err
	}

	stored, err := r.deps.Reader.FindByURL(ctx, fresh.URL)
	switch {
	case apperr.IsNotFound(err):
		inserted, err := r.deps.Writer.InsertIfNotExists(ctx, fresh)
		if err != nil {
			return OutcomeFailed, err
		}
		if !inserted {
			return OutcomeSkipped, nil
		}
		return OutcomeInserted, nil

	case err != nil:
		return OutcomeFailed, err
	}

	synced, err := r.deps.Syncer.Sync(ctx, stored, fresh)
	result.Change = synced.Change.String()
	result.ChapterFailures = len(synced.Chapters.Failures)
	if err != nil {
		return OutcomeFailed, err
	}
	return OutcomeSynced, nil
}
