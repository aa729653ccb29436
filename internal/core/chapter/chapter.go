// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter reconciles a work's ordered chapter list, and each chapter's
ordered page list, against a fresh scrape.

Chapters are matched purely by position. The matching lives behind [Differ] so
a content-keyed strategy can replace it without touching the [Synchronizer].
*/
package chapter

import "time"

// Chapter is one entry of a work's reading order.
type Chapter struct {
	ID      string `json:"id"`
	MangaID string `json:"manga_id"`
	Name    string `json:"name"`

	// Number is the site's free-text chapter label ("12.5", "Extra").
	Number string `json:"number"`

	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// SequenceNumber is the 0-based reading position within the work.
	SequenceNumber int       `json:"sequence_number"`
	LastWatchTime  time.Time `json:"last_watch_time"`
	Pages          []Page    `json:"pages"`
}

// Page is one image of a chapter.
type Page struct {
	ID         string `json:"id"`
	ChapterID  string `json:"chapter_id"`
	URL        string `json:"url"`
	PageNumber int    `json:"page_number"`
}

// # Change Detection

// Change is a bit set of the aspects in which a fresh chapter differs from the stored one.
type Change uint8

const (
	ChangeMetadata Change = 1 << iota
	ChangePages

	ChangeNone Change = 0
)

// Has reports whether every bit of flag is set.
func (c Change) Has(flag Change) bool {
	return c&flag == flag && flag != 0
}

/*
Compare returns what differs between stored and fresh.

  - ChangeMetadata: name, number or updated-at differ.
  - ChangePages: some page URL differs at a position both lists share.

Page lists of different lengths whose shared prefix matches are reported as
unchanged; only the overlapping positions are compared.
*/
func Compare(stored, fresh *Chapter) Change {
	change := ChangeNone

	if stored.Name != fresh.Name || stored.Number != fresh.Number || !sameInstant(stored.UpdatedAt, fresh.UpdatedAt) {
		change |= ChangeMetadata
	}

	shared := min(len(stored.Pages), len(fresh.Pages))
	for i := 0; i < shared; i++ {
		if stored.Pages[i].URL != fresh.Pages[i].URL {
			change |= ChangePages
			break
		}
	}

	return change
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
