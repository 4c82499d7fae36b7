package repositories

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/sqlite"
)

// ArchiveRepository keeps puzzles that rolled out of a bank so they are never lost.
type ArchiveRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewArchiveRepository(dbs *sqlite.Database, logger *slog.Logger) *ArchiveRepository {
	return &ArchiveRepository{
		dbs:    dbs,
		logger: logger.With("source", "ArchiveRepository"),
	}
}

// Archive stores puzzles retired by the run runID. The run must already be recorded.
func (r *ArchiveRepository) Archive(
	ctx context.Context,
	runID string,
	game models.GameType,
	puzzles []models.Puzzle,
) error {
	if len(puzzles) == 0 {
		return nil
	}
	retired := time.Now().UTC()
	rows := make([]models.RetiredPuzzle, len(puzzles))
	for i, p := range puzzles {
		payload, err := json.Marshal(p)
		if err != nil {
			return errors.Wrap(err, "marshal retired puzzle", slog.Int("puzzle", p.PuzzleID()))
		}
		rows[i] = models.RetiredPuzzle{
			RunID:    runID,
			Game:     game,
			PuzzleID: p.PuzzleID(),
			Retired:  retired,
			Payload:  string(payload),
		}
	}

	stmt := `INSERT INTO retired_puzzles (run_id, game, puzzle_id, retired, payload)
VALUES (:run_id, :game, :puzzle_id, :retired, :payload)`
	if _, err := r.dbs.ReadWrite.NamedExecContext(ctx, stmt, rows); err != nil {
		return errors.Wrap(err, "insert retired puzzles", slog.String("runID", runID))
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "archived retired puzzles",
		slog.String("runID", runID), slog.String("game", string(game)), slog.Int("count", len(rows)))
	return nil
}

// Count returns the number of archived puzzles of game.
func (r *ArchiveRepository) Count(ctx context.Context, game models.GameType) (int, error) {
	var count int
	if err := r.dbs.ReadOnly.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM retired_puzzles WHERE game = ?`, game); err != nil {
		return 0, errors.Wrap(err, "count retired puzzles", slog.String("game", string(game)))
	}
	return count, nil
}

// List returns the most recently retired puzzles of game first.
func (r *ArchiveRepository) List(ctx context.Context, game models.GameType, limit int) ([]models.RetiredPuzzle, error) {
	var puzzles []models.RetiredPuzzle
	stmt := `SELECT run_id, game, puzzle_id, retired, payload
FROM retired_puzzles
WHERE game = ?
ORDER BY retired DESC, puzzle_id
LIMIT ?`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &puzzles, stmt, game, limit); err != nil {
		return nil, errors.Wrap(err, "select retired puzzles", slog.String("game", string(game)))
	}
	return puzzles, nil
}
