// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"log/slog"
)

// Service writes and reads credits.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
Credit applies the casing policy, upserts the union of authors and artists
into the name pool, then links each list to mangaID.

Returns the normalised lists so callers can keep their in-memory work in sync.
*/
func (service *Service) Credit(ctx context.Context, mangaID string, authors, artists []string) ([]string, []string, error) {
	authors = NormalizeAuthors(authors)
	artists = NormalizeArtists(artists)

	union := make([]string, 0, len(authors)+len(artists))
	union = append(union, authors...)
	union = append(union, artists...)

	if len(union) == 0 {
		return authors, artists, nil
	}

	if err := service.repo.InsertIgnore(ctx, union); err != nil {
		return nil, nil, err
	}
	if err := service.repo.Link(ctx, RoleAuthor, mangaID, authors); err != nil {
		return nil, nil, err
	}
	if err := service.repo.Link(ctx, RoleArtist, mangaID, artists); err != nil {
		return nil, nil, err
	}

	service.logger.Debug("credits_linked",
		slog.String("manga_id", mangaID),
		slog.Int("authors", len(authors)),
		slog.Int("artists", len(artists)),
	)

	return authors, artists, nil
}

// List returns the names credited on mangaID under role.
func (service *Service) List(ctx context.Context, role Role, mangaID string) ([]string, error) {
	return service.repo.ListByManga(ctx, role, mangaID)
}
