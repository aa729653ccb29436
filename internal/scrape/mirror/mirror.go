// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mirror implements a [scrape.Adapter] backed by a JSON scrape mirror.

The mirror exposes every source under its own path prefix:

	GET {base}/{source}/genres          -> ["action", "drama", ...]
	GET {base}/{source}/manga?url={url} -> scrape.Record

Requests are throttled per adapter and transient failures (transport errors and
5xx responses) are retried with exponential backoff.
*/
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/time/rate"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/scrape"
)

// Options tunes the network behaviour of an [Adapter].
type Options struct {
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// Retries is the number of extra attempts after the first one.
	Retries uint

	// RPS caps requests per second. Zero or less disables throttling.
	RPS float64

	// Delay is the initial backoff delay.
	Delay time.Duration
}

// Adapter scrapes one source through the mirror.
type Adapter struct {
	base     string
	source   string
	priority int
	client   *http.Client
	limiter  *rate.Limiter
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// New constructs a new [Adapter] for source at base.
func New(base, source string, priority int, opts Options, logger *slog.Logger) *Adapter {
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	return &Adapter{
		base:     base,
		source:   source,
		priority: priority,
		client:   &http.Client{Timeout: opts.Timeout},
		limiter:  rate.NewLimiter(limit, 1),
		attempts: opts.Retries + 1,
		delay:    delay,
		logger:   logger.With(slog.String("source", source)),
	}
}

// Source implements [scrape.Adapter].
func (a *Adapter) Source() string { return a.source }

// Priority implements [scrape.Adapter].
func (a *Adapter) Priority() int { return a.priority }

// Genres implements [scrape.Adapter].
func (a *Adapter) Genres(ctx context.Context) ([]string, error) {
	var genres []string
	if err := a.get(ctx, "genres", nil, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// Fetch implements [scrape.Adapter].
func (a *Adapter) Fetch(ctx context.Context, target string) (*scrape.Record, error) {
	var record scrape.Record
	if err := a.get(ctx, "manga", url.Values{"url": {target}}, &record); err != nil {
		return nil, err
	}

	// The mirror may omit fields it considers implicit in the request.
	if record.Source == "" {
		record.Source = a.source
	}
	if record.URL == "" {
		record.URL = target
	}
	return &record, nil
}

// statusError is a non-2xx mirror response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("mirror responded %d %s", e.code, http.StatusText(e.code))
}

// get performs a throttled, retried GET and decodes the JSON body into out.
func (a *Adapter) get(ctx context.Context, resource string, query url.Values, out any) error {
	endpoint, err := url.JoinPath(a.base, a.source, resource)
	if err != nil {
		return apperr.Internal(fmt.Errorf("mirror base url: %w", err))
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	return retry.Do(
		func() error { return a.attempt(ctx, endpoint, out) },
		retry.Context(ctx),
		retry.Attempts(a.attempts),
		retry.Delay(a.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			a.logger.Warn("mirror_request_retry",
				slog.String("endpoint", endpoint),
				slog.Uint64("attempt", uint64(n+1)),
				slog.Any("error", err),
			)
		}),
	)
}

func (a *Adapter) attempt(ctx context.Context, endpoint string, out any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return apperr.Network(endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("build mirror request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return apperr.Network(endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.NotFound(endpoint)
	case resp.StatusCode >= http.StatusBadRequest:
		return apperr.Network(endpoint, &statusError{code: resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Parse(fmt.Sprintf("decode %s: %v", endpoint, err))
	}
	return nil
}

// retryable reports whether err is a transient network failure.
// Client errors other than 404 are permanent.
func retryable(err error) bool {
	if apperr.KindOf(err) != apperr.KindNetwork {
		return false
	}
	var status *statusError
	if errors.As(err, &status) {
		return status.code >= http.StatusInternalServerError || status.code == http.StatusTooManyRequests
	}
	return true
}
