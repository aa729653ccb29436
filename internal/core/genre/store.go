// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import "context"

// Repository defines the persistence contract for genres.
type Repository interface {

	/*
		InsertIgnore inserts every genre whose name is not stored yet.
		Rows that already exist keep their identifier.
	*/
	InsertIgnore(ctx context.Context, genres []Genre) error

	// ListAll loads the full genre table.
	ListAll(ctx context.Context) ([]Genre, error)
}
