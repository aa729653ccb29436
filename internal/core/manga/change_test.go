// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangaverse/internal/core/genre"
	"github.com/taibuivan/mangaverse/internal/core/manga"
)

/*
TestElect covers every branch of the main-record election.
*/
func TestElect(t *testing.T) {
	tests := []struct {
		name      string
		priority  int
		candidate *manga.Candidate
		want      manga.Decision
	}{
		{"no_candidate", 3, nil, manga.DecisionStandalone},
		{"equal_priority", 2, &manga.Candidate{Priority: 2}, manga.DecisionSameTrust},
		{"less_trusted", 5, &manga.Candidate{Priority: 2}, manga.DecisionFollow},
		{"more_trusted", 1, &manga.Candidate{Priority: 2}, manga.DecisionTakeOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, manga.Elect(tt.priority, tt.candidate))
		})
	}

	assert.True(t, manga.DecisionTakeOver.JoinsGroup())
	assert.False(t, manga.DecisionSameTrust.JoinsGroup())
	assert.False(t, manga.DecisionFollow.BecomesMain())
	assert.Equal(t, "take_over", manga.DecisionTakeOver.String())
}

func baseWork() *manga.Manga {
	updated := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return &manga.Manga{
		Name:        "Solo Leveling",
		CoverURL:    "https://cdn/cover.jpg",
		LastUpdated: &updated,
		Status:      manga.StatusOngoing,
		Description: "A hunter rises.",
		Titles:      []string{"Solo Leveling"},
		Genres:      []genre.Genre{{ID: "g1", Name: "action"}, {ID: "g2", Name: "fantasy"}},
	}
}

/*
TestCompare exercises each change bit in isolation.
*/
func TestCompare(t *testing.T) {
	later := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(m *manga.Manga)
		want   manga.Change
	}{
		{"identical", func(m *manga.Manga) {}, manga.ChangeNone},
		{"genre_order_only", func(m *manga.Manga) { m.Genres[0], m.Genres[1] = m.Genres[1], m.Genres[0] }, manga.ChangeNone},
		{"status", func(m *manga.Manga) { m.Status = manga.StatusCompleted }, manga.ChangeMetadata},
		{"last_updated", func(m *manga.Manga) { m.LastUpdated = &later }, manga.ChangeMetadata},
		{"name", func(m *manga.Manga) { m.Name = "Solo Leveling: Ragnarok" }, manga.ChangeMetadata | manga.ChangeListing},
		{"cover", func(m *manga.Manga) { m.CoverURL = "https://cdn/cover2.jpg" }, manga.ChangeMetadata | manga.ChangeListing},
		{"description", func(m *manga.Manga) { m.Description = "New blurb." }, manga.ChangeMetadata | manga.ChangeListing},
		{"genre_added", func(m *manga.Manga) { m.Genres = append(m.Genres, genre.Genre{ID: "g3", Name: "drama"}) }, manga.ChangeGenres | manga.ChangeListing},
		{"genre_removed", func(m *manga.Manga) { m.Genres = m.Genres[:1] }, manga.ChangeGenres | manga.ChangeListing},
		{"new_title", func(m *manga.Manga) { m.Titles = append(m.Titles, "Only I Level Up") }, manga.ChangeTitles},
		{"fewer_titles", func(m *manga.Manga) { m.Titles = nil }, manga.ChangeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored, fresh := baseWork(), baseWork()
			tt.mutate(fresh)
			assert.Equal(t, tt.want, manga.Compare(stored, fresh), manga.Compare(stored, fresh).String())
		})
	}
}

func TestChange_String(t *testing.T) {
	assert.Equal(t, "none", manga.ChangeNone.String())
	assert.Equal(t, "metadata|genres", (manga.ChangeMetadata | manga.ChangeGenres).String())
}

/*
TestNewListing checks genre flattening and the description budget.
*/
func TestNewListing(t *testing.T) {
	m := baseWork()
	m.ID = "m1"
	m.Genres = []genre.Genre{{Name: "slice of life"}, {Name: "action"}, {Name: "martial arts"}}
	m.Description = strings.Repeat("é", 300)

	listing := manga.NewListing(m)
	assert.Equal(t, "m1", listing.MangaID)
	assert.Equal(t, "Action, Martial Arts, Slice Of Life", listing.Genres)
	assert.Equal(t, 255, utf8.RuneCountInString(listing.Description))

	m.Description = "Short."
	assert.Equal(t, "Short.", manga.NewListing(m).Description)

	m.Genres = nil
	assert.Equal(t, "", manga.NewListing(m).Genres)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, manga.StatusOngoing, manga.ParseStatus(" ongoing "))
	assert.Equal(t, manga.Status("HIATUS"), manga.ParseStatus("Hiatus"))
}
