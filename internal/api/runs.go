// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangaverse/internal/ingest"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/respond"
)

// RunReporter exposes the most recent synchronisation run.
type RunReporter interface {
	Latest() *ingest.Report
}

// RunsHandler serves run reports.
type RunsHandler struct {
	runs RunReporter
}

// NewRunsHandler constructs a new [RunsHandler].
func NewRunsHandler(runs RunReporter) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// Routes mounts the run endpoints.
func (handler *RunsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/latest", handler.latest)
	return r
}

// latest handles GET /api/v1/runs/latest.
func (handler *RunsHandler) latest(writer http.ResponseWriter, request *http.Request) {
	report := handler.runs.Latest()
	if report == nil {
		respond.Error(writer, request, apperr.NotFound("run"))
		return
	}
	respond.OK(writer, report)
}
