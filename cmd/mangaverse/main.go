// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command mangaverse is the entry point of the catalog sync worker.
//
// # Commands
//
//   - migrate: apply (or roll back) the SQL migrations.
//   - sync:    synchronise the given work URLs of one source.
//   - resync:  synchronise every stored work not watched recently.
//   - serve:   run the ops server and the scheduled re-sync.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/logger"
)

func main() {
	app := &cli.App{
		Name:    constants.AppName,
		Usage:   "merge scraped manga catalogs into one canonical store",
		Version: constants.AppVersion,
		Commands: []*cli.Command{
			migrateCommand(),
			syncCommand(),
			resyncCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// Configuration may not have loaded; fall back to a plain JSON logger.
		logger.New(os.Stderr, logger.Options{}).Error("command_failed", slog.Any("error", err))
		os.Exit(1)
	}
}
