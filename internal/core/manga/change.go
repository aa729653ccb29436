// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import "time"

// Change is a bit set of the aspects in which a fresh scrape differs from the stored work.
type Change uint8

const (
	ChangeMetadata Change = 1 << iota
	ChangeListing
	ChangeGenres
	ChangeTitles

	ChangeNone Change = 0
)

// Has reports whether every bit of flag is set.
func (c Change) Has(flag Change) bool {
	return c&flag == flag && flag != 0
}

// String renders the set for logs, e.g. "metadata|genres".
func (c Change) String() string {
	if c == ChangeNone {
		return "none"
	}
	names := []struct {
		flag Change
		name string
	}{
		{ChangeMetadata, "metadata"},
		{ChangeListing, "listing"},
		{ChangeGenres, "genres"},
		{ChangeTitles, "titles"},
	}
	out := ""
	for _, n := range names {
		if c.Has(n.flag) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	return out
}

/*
Compare computes the change set between stored and fresh.

  - ChangeMetadata: name, cover, last-updated, status or description differ.
  - ChangeListing: name, cover or description differ, or the genre set differs.
  - ChangeGenres: the genre sets differ, ignoring order.
  - ChangeTitles: fresh carries a title the stored linked group lacks.
*/
func Compare(stored, fresh *Manga) Change {
	change := ChangeNone

	presentation := stored.Name != fresh.Name ||
		stored.CoverURL != fresh.CoverURL ||
		stored.Description != fresh.Description

	if presentation || stored.Status != fresh.Status || !sameInstant(stored.LastUpdated, fresh.LastUpdated) {
		change |= ChangeMetadata
	}

	genresChanged := !sameSet(stored.GenreIDs(), fresh.GenreIDs())
	if genresChanged {
		change |= ChangeGenres
	}
	if presentation || genresChanged {
		change |= ChangeListing
	}

	if len(MissingTitles(stored.Titles, fresh.Titles)) > 0 {
		change |= ChangeTitles
	}

	return change
}

// MissingTitles returns the entries of fresh absent from stored, in fresh order.
func MissingTitles(stored, fresh []string) []string {
	known := make(map[string]struct{}, len(stored))
	for _, t := range stored {
		known[t] = struct{}{}
	}

	var missing []string
	for _, t := range fresh {
		if _, ok := known[t]; ok {
			continue
		}
		known[t] = struct{}{}
		missing = append(missing, t)
	}
	return missing
}

func sameSet(a, b []string) bool {
	left := make(map[string]struct{}, len(a))
	for _, v := range a {
		left[v] = struct{}{}
	}
	right := make(map[string]struct{}, len(b))
	for _, v := range b {
		right[v] = struct{}{}
	}
	if len(left) != len(right) {
		return false
	}
	for v := range left {
		if _, ok := right[v]; !ok {
			return false
		}
	}
	return true
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
