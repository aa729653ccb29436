// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/mangaverse", "pgx5://u:p@db:5432/mangaverse"},
		{"postgresql://db/mangaverse?sslmode=disable", "pgx5://db/mangaverse?sslmode=disable"},
		{"pgx5://db/mangaverse", "pgx5://db/mangaverse"},
		{"host=db dbname=mangaverse", "host=db dbname=mangaverse"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
	}
}

func TestRunDown_RejectsNonPositiveSteps(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Error(t, RunDown("postgres://db/x", "./data/migrations", 0, logger))
}
