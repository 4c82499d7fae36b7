package repositories

import (
	"context"
	"log/slog"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/sqlite"
)

type RunRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewRunRepository(dbs *sqlite.Database, logger *slog.Logger) *RunRepository {
	return &RunRepository{
		dbs:    dbs,
		logger: logger.With("source", "RunRepository"),
	}
}

// Record stores run together with the degradations that occurred during it.
func (r *RunRepository) Record(ctx context.Context, run models.Run, degradations []models.Degradation) error {
	run.Degradations = len(degradations)
	tx, err := r.dbs.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := `INSERT INTO generation_runs (id, kind, game, seed, puzzle_count, degradation_count, started, finished)
VALUES (:id, :kind, :game, :seed, :puzzle_count, :degradation_count, :started, :finished)`
	if _, err = tx.NamedExecContext(ctx, stmt, run); err != nil {
		return errors.Wrap(err, "insert run", slog.String("runID", run.ID))
	}

	if len(degradations) > 0 {
		rows := make([]degradationRow, len(degradations))
		for i, d := range degradations {
			rows[i] = degradationRow{RunID: run.ID, Degradation: d}
		}
		stmt = `INSERT INTO degradations (run_id, game, puzzle_id, round, attempts, key)
VALUES (:run_id, :game, :puzzle_id, :round, :attempts, :key)`
		if _, err = tx.NamedExecContext(ctx, stmt, rows); err != nil {
			return errors.Wrap(err, "insert degradations", slog.String("runID", run.ID))
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit run", slog.String("runID", run.ID))
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "recorded run",
		slog.String("runID", run.ID), slog.Int("degradations", len(degradations)))
	return nil
}

type degradationRow struct {
	RunID string `db:"run_id"`
	models.Degradation
}

// List returns the most recent runs first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]models.Run, error) {
	var runs []models.Run
	stmt := `SELECT id, kind, game, seed, puzzle_count, degradation_count, started, finished
FROM generation_runs
ORDER BY started DESC, id
LIMIT ?`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &runs, stmt, limit); err != nil {
		return nil, errors.Wrap(err, "select runs", slog.Int("limit", limit))
	}
	return runs, nil
}

// Degradations returns the degradations of a run in bank order.
func (r *RunRepository) Degradations(ctx context.Context, runID string) ([]models.Degradation, error) {
	var degradations []models.Degradation
	stmt := `SELECT game, puzzle_id, round, attempts, key
FROM degradations
WHERE run_id = ?
ORDER BY puzzle_id, round`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &degradations, stmt, runID); err != nil {
		return nil, errors.Wrap(err, "select degradations", slog.String("runID", runID))
	}
	return degradations, nil
}
