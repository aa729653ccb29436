// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package scrape

import (
	"fmt"
	"strings"

	"github.com/taibuivan/mangaverse/internal/core/chapter"
	"github.com/taibuivan/mangaverse/internal/core/manga"
	"github.com/taibuivan/mangaverse/internal/core/reference"
	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
	"github.com/taibuivan/mangaverse/pkg/slice"
)

/*
Normalize converts a raw record into a work the engine can store.

  - Source is resolved through cache. A source the cache lacks is UNKNOWN_SOURCE.
  - Titles are the name followed by the alternates, trimmed, deduplicated.
  - Genres the cache does not know are dropped.
  - Chapters are reversed from site order into reading order and numbered
    densely from 0. Pages are numbered from 0.

The result is validated. Any violation is PARSE_FAILURE.
*/
func Normalize(record *Record, cache *reference.Cache) (*manga.Manga, error) {
	src, ok := cache.Source(record.Source)
	if !ok {
		return nil, apperr.UnknownSource(record.Source)
	}

	m := &manga.Manga{
		Name:        strings.TrimSpace(record.Name),
		URL:         strings.TrimSpace(record.URL),
		CoverURL:    strings.TrimSpace(record.CoverURL),
		LastUpdated: record.LastUpdated,
		Status:      manga.ParseStatus(record.Status),
		Description: strings.TrimSpace(record.Description),
		IsListed:    true,
		Source:      src,
		Titles:      titles(record.Name, record.Alternates),
		Authors:     record.Authors,
		Artists:     record.Artists,
		Genres:      cache.Genres(record.Genres),
		Chapters:    chapters(record.Chapters),
	}

	if err := check(m); err != nil {
		return nil, err
	}
	return m, nil
}

func titles(name string, alternates []string) []string {
	return slice.CleanStrings(append([]string{name}, alternates...), nil)
}

func chapters(site []RecordChapter) []chapter.Chapter {
	out := make([]chapter.Chapter, len(site))
	for i := range site {
		raw := site[len(site)-1-i]

		pages := make([]chapter.Page, len(raw.Pages))
		for n, url := range raw.Pages {
			pages[n] = chapter.Page{URL: strings.TrimSpace(url), PageNumber: n}
		}

		out[i] = chapter.Chapter{
			Name:           strings.TrimSpace(raw.Name),
			Number:         strings.TrimSpace(raw.Number),
			UpdatedAt:      raw.UpdatedAt,
			SequenceNumber: i,
			Pages:          pages,
		}
	}
	return out
}

func check(m *manga.Manga) error {
	v := &validate.Validator{}
	v.Required("name", m.Name).
		AbsoluteURL("url", m.URL).
		NotEmpty("titles", len(m.Titles))

	if m.CoverURL != "" {
		v.AbsoluteURL("cover_url", m.CoverURL)
	}

	for i, c := range m.Chapters {
		field := fmt.Sprintf("chapters[%d]", i)
		v.Required(field+".name", c.Name)
		for n, p := range c.Pages {
			v.Custom(fmt.Sprintf("%s.pages[%d]", field, n), p.URL == "", "Page URL is required")
		}
	}

	return v.Err()
}
