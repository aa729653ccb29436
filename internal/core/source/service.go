// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/mangaverse/internal/platform/apperr"
	"github.com/taibuivan/mangaverse/internal/platform/validate"
	"github.com/taibuivan/mangaverse/pkg/uuid"
)

// # Service Layer

// Service is the Source Registry.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
Ensure returns the source called name, creating it with priority when absent.

Description: An existing row is returned untouched, even when its stored
priority differs from the one requested. Concurrent first-time calls for the
same name race on the unique constraint; the loser receives a CONFLICT error
rather than a duplicate row.

Returns:
  - *Source: The existing or newly created row
  - error: CONFLICT, STORAGE_FAILURE or PARSE_FAILURE for a blank name
*/
func (service *Service) Ensure(ctx context.Context, name string, priority int) (*Source, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	validator := &validate.Validator{}
	validator.Required("source", name)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	existing, err := service.repo.FindByName(ctx, name)
	if err == nil {
		if existing.Priority != priority {
			service.logger.Warn("source_priority_ignored",
				slog.String("source", name),
				slog.Int("stored_priority", existing.Priority),
				slog.Int("requested_priority", priority),
			)
		}
		return existing, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	created := &Source{ID: uuid.New(), Name: name, Priority: priority}
	if err := service.repo.Create(ctx, created); err != nil {
		return nil, err
	}

	service.logger.Info("source_registered",
		slog.String("source", name),
		slog.Int("priority", priority),
	)

	return created, nil
}

// List returns every registered source.
func (service *Service) List(ctx context.Context) ([]*Source, error) {
	return service.repo.List(ctx)
}
