package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/repositories"
	"github.com/jsech3/GameIQ/internal/sqlite"
	"github.com/jsech3/GameIQ/internal/testhelpers"
)

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("GAMEIQ_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "GAMEIQ_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	// Migrating a copy of the production ledger must keep its history.
	runs, err := repositories.NewRunRepository(db, logger).List(ctx, 1)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error listing runs", errors.SlogError(err))
		os.Exit(1)
	}
	if len(runs) == 0 {
		logger.LogAttrs(ctx, slog.LevelError, "no runs found, something is likely wrong")
		os.Exit(1)
	}
	var archived int
	if archived, err = repositories.NewArchiveRepository(db, logger).Count(ctx, runs[0].Game); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error counting retired puzzles", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "latest run",
		slog.String("runID", runs[0].ID), slog.String("game", string(runs[0].Game)), slog.Int("archived", archived))

	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
}
