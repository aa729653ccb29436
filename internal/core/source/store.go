// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import "context"

// # Source Data Access

// Repository defines the persistence contract for source identities.
type Repository interface {

	/*
		FindByName looks a source up by its unique name.

		Returns:
		  - *Source: The stored row
		  - error: apperr NOT_FOUND when absent
	*/
	FindByName(ctx context.Context, name string) (*Source, error)

	/*
		Create inserts a new source row.

		Returns:
		  - error: apperr CONFLICT when a concurrent first insert won the race
	*/
	Create(ctx context.Context, src *Source) error

	// List returns every registered source ordered by priority.
	List(ctx context.Context) ([]*Source, error)
}
