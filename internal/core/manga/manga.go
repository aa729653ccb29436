// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package manga defines the Work entity and the engine that turns scraped works
into durable, deduplicated catalogue state.

Core Responsibility:

  - Identity: a [Writer] decides whether a first-seen work is a new logical
    work or another source's view of an existing one, and elects the main record.
  - Freshness: a [Synchronizer] applies the minimal set of updates between a
    stored work and a fresh scrape of the same URL.
  - Hydration: a [Reader] loads a stored work with all of its relations.

Every row of one logical work shares a linked id. Within a linked group exactly
one row is main, and the source priority decides which.
*/
package manga

import (
	"strings"
	"time"

	"github.com/taibuivan/mangaverse/internal/core/chapter"
	"github.com/taibuivan/mangaverse/internal/core/genre"
	"github.com/taibuivan/mangaverse/internal/core/source"
)

// # Domain Enums

// Status is the publication status reported by the source, upper-cased.
type Status string

const (
	StatusOngoing   Status = "ONGOING"
	StatusCompleted Status = "COMPLETED"
	StatusUnknown   Status = ""
)

// ParseStatus upper-cases and trims a scraped status label.
// Labels other than the known ones are kept verbatim.
func ParseStatus(raw string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(raw)))
}

// # Domain Entities

// Manga is one source's record of a work.
type Manga struct {
	ID       string `json:"id"`
	LinkedID string `json:"linked_id"`
	IsMain   bool   `json:"is_main"`
	IsListed bool   `json:"is_listed"`

	Name        string     `json:"name"`
	CoverURL    string     `json:"cover_url"`
	URL         string     `json:"url"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Status      Status     `json:"status"`
	Description string     `json:"description"`

	// LastWatchTime marks the last successful synchronisation.
	LastWatchTime time.Time `json:"last_watch_time"`

	// PublicID is assigned once at first insert and never recomputed.
	PublicID string `json:"public_id"`
	IsOld    bool   `json:"is_old"`

	Source *source.Source `json:"source"`

	// Relations
	Titles   []string          `json:"titles"`
	Authors  []string          `json:"authors"`
	Artists  []string          `json:"artists"`
	Genres   []genre.Genre     `json:"genres"`
	Chapters []chapter.Chapter `json:"chapters"`
}

// GenreIDs returns the identifiers of the resolved genres.
func (m *Manga) GenreIDs() []string {
	ids := make([]string, len(m.Genres))
	for i, g := range m.Genres {
		ids[i] = g.ID
	}
	return ids
}

// Candidate is an existing main record that shares a title with a new work.
type Candidate struct {
	MangaID  string
	LinkedID string
	Priority int
}
