// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logger builds the process-wide [*slog.Logger].
//
// Production uses the JSON handler so log shippers can index fields.
// Development uses tint for coloured console output.
package logger

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/taibuivan/mangaverse/internal/platform/constants"
)

// Options selects the handler and level.
type Options struct {
	Debug   bool
	Console bool
}

// New returns a logger tagged with the application name.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.Console {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if err, ok := attr.Value.Any().(error); ok {
					errAttr := tint.Err(err)
					errAttr.Key = attr.Key
					return errAttr
				}
				return attr
			},
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler).With(slog.String("app", constants.AppName))
}
