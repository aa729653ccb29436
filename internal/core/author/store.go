// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import "context"

// Repository defines the persistence contract for credits.
type Repository interface {

	// InsertIgnore adds every name not yet present in the shared name pool.
	InsertIgnore(ctx context.Context, names []string) error

	// Link attaches the named people to mangaID under role, resolving names to ids in the store.
	Link(ctx context.Context, role Role, mangaID string, names []string) error

	// ListByManga returns the names credited on mangaID under role.
	ListByManga(ctx context.Context, role Role, mangaID string) ([]string, error)
}
