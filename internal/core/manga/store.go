// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"
	"time"
)

// # Manga Data Access

// Repository defines the persistence contract for works and the relations
// they own (titles, genre links, listing row).
type Repository interface {

	// ## Lookups

	/*
		FindByURL loads the work row stored under a canonical URL.

		Relations are not loaded. Source carries only the id and name
		from the join; the [Reader] resolves it against the reference cache.

		Returns:
		  - error: apperr NOT_FOUND when no row has that URL
	*/
	FindByURL(ctx context.Context, url string) (*Manga, error)

	// FindByID is [Repository.FindByURL] keyed on the row identifier.
	FindByID(ctx context.Context, id string) (*Manga, error)

	// ExistsByURL reports whether a row with url is stored.
	ExistsByURL(ctx context.Context, url string) (bool, error)

	// ListTitles returns every title of a linked group.
	ListTitles(ctx context.Context, linkedID string) ([]string, error)

	// ListGenreNames returns the names of the genres linked to a work.
	ListGenreNames(ctx context.Context, mangaID string) ([]string, error)

	// ListStaleURLs returns up to limit URLs of sourceID last watched before cutoff, oldest first.
	ListStaleURLs(ctx context.Context, sourceID string, cutoff time.Time, limit int) ([]string, error)

	// ## Identity & Election

	// Insert stores the work row as given.
	Insert(ctx context.Context, m *Manga) error

	/*
		FindMainCandidate returns a main row whose linked group has a title
		equal to one of titles. At most one candidate is considered.

		Returns:
		  - error: apperr NOT_FOUND when nothing matches
	*/
	FindMainCandidate(ctx context.Context, titles []string) (*Candidate, error)

	// SetLinkedID moves a row into another linked group.
	SetLinkedID(ctx context.Context, mangaID, linkedID string) error

	// DemoteGroup clears the main flag of every row in a linked group.
	DemoteGroup(ctx context.Context, linkedID string) error

	// Promote marks one row as main.
	Promote(ctx context.Context, mangaID string) error

	// ## Relations

	// InsertTitles adds each (title, linkedID) pair that is not stored yet.
	InsertTitles(ctx context.Context, linkedID string, titles []string) error

	// InsertGenres bulk-links genres to a work.
	InsertGenres(ctx context.Context, mangaID string, genreIDs []string) error

	// ReplaceGenres deletes every genre link of a work, then inserts genreIDs.
	ReplaceGenres(ctx context.Context, mangaID string, genreIDs []string) error

	// ## Synchronisation

	// UpdateMetadata rewrites name, cover, last-updated, status and description together.
	UpdateMetadata(ctx context.Context, m *Manga) error

	// SaveListing inserts or overwrites the listing row.
	SaveListing(ctx context.Context, listing Listing) error

	// TouchWatchTime stamps the last successful synchronisation.
	TouchWatchTime(ctx context.Context, mangaID string, at time.Time) error

	// ## Transactions

	// WithinTx runs fn against a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(Repository) error) error
}
