package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jsech3/GameIQ/internal/e2etest"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/logging"
	"github.com/jsech3/GameIQ/internal/models"
)

// TestDailyPuzzles checks that every game is listed and serves the puzzle its listing announces.
func TestDailyPuzzles(ctx context.Context, logger *slog.Logger, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	games, err := client.Games(ctx)
	if err != nil {
		return errors.Wrap(err, "list games")
	}
	if len(games) != len(models.GameTypes()) {
		return errors.New("not every game is served", slog.Int("served", len(games)))
	}
	for _, g := range games {
		puzzle, todayErr := client.Today(ctx, g.Game)
		if todayErr != nil {
			return errors.Wrap(todayErr, "fetch today", slog.String("game", string(g.Game)))
		}
		if puzzle.Index != g.Index {
			return errors.New("today disagrees with game list",
				slog.String("game", string(g.Game)), slog.Int("index", puzzle.Index), slog.Int("listed", g.Index))
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "fetched puzzle",
			slog.String("game", string(g.Game)), slog.Int("day", puzzle.Day), slog.Int("puzzle", puzzle.Puzzle.PuzzleID()))
	}
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   = e2etest.NewClient(url, "")
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestDailyPuzzles(ctx, logger, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing daily puzzles", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
