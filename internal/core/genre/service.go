// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangaverse/pkg/slice"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// Service is the Genre Registry.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
EnsureAll upserts names and returns the complete, freshly reloaded genre map.

Description: Every normalised name is offered with a fresh identifier; names
already stored keep their original one. The returned map always covers the
whole table, not only the names passed in, so later stages can resolve any
genre a record mentions.

Returns:
  - map[string]Genre: Canonical name to genre, for every stored genre
  - error: STORAGE_FAILURE
*/
func (service *Service) EnsureAll(ctx context.Context, names []string) (map[string]Genre, error) {
	candidates := slice.Map(NormalizeAll(names), func(name string) Genre {
		return Genre{ID: uuid.New(), Name: name}
	})

	if err := service.repo.InsertIgnore(ctx, candidates); err != nil {
		return nil, err
	}

	all, err := service.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Genre, len(all))
	for _, g := range all {
		byName[g.Name] = g
	}

	service.logger.Info("genres_loaded",
		slog.Int("offered", len(candidates)),
		slog.Int("total", len(byName)),
	)

	return byName, nil
}
