// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package scrape defines the contract between scraping adapters and the
synchronisation engine.

An adapter turns a source URL into a raw [Record]. [Normalize] turns that record
into a [manga.Manga] ready for the Writer or the Synchronizer. Adapters never
touch storage.
*/
package scrape

import (
	"context"
	"time"

	"github.com/taibuivan/mangaverse/internal/core/reference"
)

// Adapter is one scraping source.
//
// Genres lists every genre label the source knows; it feeds the reference
// cache. Fetch scrapes a single work page.
type Adapter interface {
	reference.GenreLister
	Fetch(ctx context.Context, url string) (*Record, error)
}

// Record is a work exactly as the site presents it.
type Record struct {
	Source      string     `json:"source"`
	URL         string     `json:"url"`
	Name        string     `json:"name"`
	Alternates  []string   `json:"alternates"`
	CoverURL    string     `json:"cover_url"`
	Status      string     `json:"status"`
	Description string     `json:"description"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Authors     []string   `json:"authors"`
	Artists     []string   `json:"artists"`
	Genres      []string   `json:"genres"`

	// Chapters are in site order, newest first.
	Chapters []RecordChapter `json:"chapters"`
}

// RecordChapter is one chapter entry of a [Record].
type RecordChapter struct {
	Name      string     `json:"name"`
	Number    string     `json:"number"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Pages     []string   `json:"pages"`
}
