// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangaverse/internal/api"
	"github.com/taibuivan/mangaverse/internal/ingest"
)

type stubRuns struct{ report *ingest.Report }

func (s *stubRuns) Latest() *ingest.Report { return s.report }

func newServer(t *testing.T, deps api.HealthDependencies, runs *stubRuns) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	liveness, readiness := api.NewHealthHandlers(deps, logger)
	return api.NewServer(ctx, "0", logger, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Runs:      api.NewRunsHandler(runs),
	}).Handler()
}

func get(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := get(t, newServer(t, api.HealthDependencies{}, &stubRuns{}), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "ok", body["data"].(map[string]any)["status"])
}

/*
TestReady verifies that any failing dependency degrades readiness to 503.
*/
func TestReady(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	rec, body := get(t, newServer(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy}, &stubRuns{}), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["data"].(map[string]any)["status"])

	rec, body = get(t, newServer(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: broken}, &stubRuns{}), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "degraded", data["status"])
	assert.Len(t, data["checks"], 2)
}

func TestLatestRun(t *testing.T) {
	runs := &stubRuns{}
	handler := newServer(t, api.HealthDependencies{}, runs)

	rec, body := get(t, handler, "/api/v1/runs/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	runs.report = &ingest.Report{RunID: "run-1", Synced: 3}
	rec, body = get(t, handler, "/api/v1/runs/latest")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "run-1", data["run_id"])
	assert.EqualValues(t, 3, data["synced"])
}
