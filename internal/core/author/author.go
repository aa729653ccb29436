// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package author manages the people credited on a work.

Authors and artists share one name pool (core.author) and differ only by the
junction table that links them to a work. Casing is a presentation convention
and never an identity signal:

  - Authors are stored upper-cased.
  - Artists are stored lower-cased.
*/
package author

import (
	"strings"

	"github.com/taibuivan/mangaverse/internal/platform/database/schema"
	"github.com/taibuivan/mangaverse/pkg/slice"
)

// Role selects the junction a credit is written to.
type Role int

const (
	RoleAuthor Role = iota
	RoleArtist
)

// String implements [fmt.Stringer].
func (r Role) String() string {
	if r == RoleArtist {
		return "artist"
	}
	return "author"
}

func (r Role) junction() schema.CoreMangaCreditTable {
	if r == RoleArtist {
		return schema.CoreMangaArtist
	}
	return schema.CoreMangaAuthor
}

// NormalizeAuthors trims, upper-cases and deduplicates author names.
func NormalizeAuthors(names []string) []string {
	return slice.CleanStrings(names, strings.ToUpper)
}

// NormalizeArtists trims, lower-cases and deduplicates artist names.
func NormalizeArtists(names []string) []string {
	return slice.CleanStrings(names, strings.ToLower)
}
