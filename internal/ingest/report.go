// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest

import (
	"sync"
	"time"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
)

// Job asks for one work URL of one source to be synchronised.
type Job struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

// Outcome is what happened to a single job.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeSynced   Outcome = "synced"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// Result is the record of one processed [Job].
type Result struct {
	Job
	Outcome         Outcome       `json:"outcome"`
	Change          string        `json:"change,omitempty"`
	ChapterFailures int           `json:"chapter_failures,omitempty"`
	Kind            apperr.Kind   `json:"kind,omitempty"`
	Error           string        `json:"error,omitempty"`
	Duration        time.Duration `json:"duration_ns"`
}

// Report summarises one run.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Inserted int `json:"inserted"`
	Synced   int `json:"synced"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`

	Results []Result `json:"results"`
}

func (r *Report) tally() {
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeInserted:
			r.Inserted++
		case OutcomeSynced:
			r.Synced++
		case OutcomeSkipped:
			r.Skipped++
		case OutcomeFailed:
			r.Failed++
		}
	}
}

// latest holds the most recent finished report.
type latest struct {
	mu     sync.RWMutex
	report *Report
}

func (l *latest) set(r *Report) {
	l.mu.Lock()
	l.report = r
	l.mu.Unlock()
}

func (l *latest) get() *Report {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.report
}
