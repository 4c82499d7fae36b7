package repositories_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/repositories"
	"github.com/jsech3/GameIQ/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestArchiveRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	runs := repositories.NewRunRepository(dbs, logger)
	archive := repositories.NewArchiveRepository(dbs, logger)

	run := newRun(models.RunKindRefresh, models.GameCrossfire, time.Now().UTC())
	require.NoError(t, runs.Record(ctx, run, nil))

	retired := []models.Puzzle{
		models.CrossfirePuzzle{ID: 1, Rounds: []models.CrossfireRound{{Answer: "DECK", AcceptedAnswers: []string{"DECK"}}}},
		models.CrossfirePuzzle{ID: 2, Rounds: []models.CrossfireRound{{Answer: "BARK", AcceptedAnswers: []string{"BARK"}}}},
	}
	require.NoError(t, archive.Archive(ctx, run.ID, models.GameCrossfire, retired))
	require.NoError(t, archive.Archive(ctx, run.ID, models.GameCrossfire, nil))

	tests := []struct {
		game models.GameType
		want int
	}{
		{game: models.GameCrossfire, want: 2},
		{game: models.GameRank, want: 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.game), func(t *testing.T) {
			count, err := archive.Count(ctx, tt.game)
			require.NoError(t, err)
			require.Equal(t, tt.want, count)
		})
	}

	stored, err := archive.List(ctx, models.GameCrossfire, 10)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, run.ID, stored[0].RunID)
	require.Equal(t, 1, stored[0].PuzzleID)
	var puzzle models.CrossfirePuzzle
	require.NoError(t, json.Unmarshal([]byte(stored[0].Payload), &puzzle))
	require.Equal(t, retired[0], puzzle)
}

func TestArchiveRepository_UnknownRun(t *testing.T) {
	t.Parallel()
	archive := repositories.NewArchiveRepository(newTestDB(t), testhelpers.NewLogger(io.Discard))
	err := archive.Archive(context.Background(), "missing", models.GameRank,
		[]models.Puzzle{models.RankPuzzle{ID: 1}})
	require.Error(t, err, "foreign key must reject archives of unrecorded runs")
}
