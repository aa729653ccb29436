// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/mangaverse/internal/platform/constants"
)

// Listing is the denormalised browse row derived from a work.
type Listing struct {
	MangaID     string `json:"manga_id"`
	Name        string `json:"name"`
	CoverURL    string `json:"cover_url"`
	Genres      string `json:"genres"`
	Description string `json:"description"`
}

/*
NewListing projects m into its listing row.

Genres are title-cased, sorted and joined with ", ". The description keeps at
most [constants.ListingDescriptionBudget] characters of m.Description.
*/
func NewListing(m *Manga) Listing {
	caser := cases.Title(language.English)

	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, caser.String(g.Name))
	}
	sort.Strings(genres)

	return Listing{
		MangaID:     m.ID,
		Name:        m.Name,
		CoverURL:    m.CoverURL,
		Genres:      strings.Join(genres, ", "),
		Description: truncate(m.Description, constants.ListingDescriptionBudget),
	}
}

// truncate cuts s to at most budget runes.
func truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget])
}
