// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import "context"

// # Chapter Data Access

// Repository defines the persistence contract for chapters and pages.
type Repository interface {

	/*
		ListByManga loads every chapter of a work with its pages.

		Returns:
		  - []Chapter: Ordered by sequence number, pages ordered by page number
	*/
	ListByManga(ctx context.Context, mangaID string) ([]Chapter, error)

	// UpdateMetadata rewrites name, number and updated-at of one chapter in place.
	UpdateMetadata(ctx context.Context, chapter *Chapter) error

	/*
		ReplacePages deletes every stored page of chapterID, then inserts pages.

		The two statements are committed independently.
	*/
	ReplacePages(ctx context.Context, chapterID string, pages []Page) error

	// InsertWithPages bulk-inserts chapters, then all their pages.
	InsertWithPages(ctx context.Context, chapters []Chapter) error

	// DeleteWithPages removes the pages of the given chapters, then the chapters.
	DeleteWithPages(ctx context.Context, chapterIDs []string) error
}
