// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"
	"time"

	"github.com/taibuivan/mangaverse/internal/core/author"
	"github.com/taibuivan/mangaverse/internal/core/chapter"
)

// # Collaborators

// Crediter writes author and artist credits. Implemented by [author.Service].
type Crediter interface {
	Credit(ctx context.Context, mangaID string, authors, artists []string) ([]string, []string, error)
}

// CreditLister reads credits back. Implemented by [author.Service].
type CreditLister interface {
	List(ctx context.Context, role author.Role, mangaID string) ([]string, error)
}

// ChapterStore inserts, lists and reconciles chapters. Implemented by [chapter.Synchronizer].
type ChapterStore interface {
	Insert(ctx context.Context, mangaID string, chapters []chapter.Chapter) ([]chapter.Chapter, error)
	List(ctx context.Context, mangaID string) ([]chapter.Chapter, error)
	Sync(ctx context.Context, mangaID string, stored, fresh []chapter.Chapter) (chapter.Report, error)
}

// # Options

type settings struct {
	now func() time.Time
}

// Option customises a [Writer] or [Synchronizer].
type Option func(*settings)

// WithClock overrides the time source used for watch stamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
