package models_test

import (
	"encoding/json"
	"testing"

	"github.com/jsech3/GameIQ/internal/models"
	"github.com/stretchr/testify/require"
)

func TestParseGameType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.GameType
		wantErr bool
	}{
		{name: "pricecheck", input: "pricecheck", want: models.GamePricecheck},
		{name: "mixed case", input: "Versus", want: models.GameVersus},
		{name: "padded", input: " rank ", want: models.GameRank},
		{name: "unknown", input: "blindspot", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := models.ParseGameType(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, models.ErrUnknownGame)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSelectGames(t *testing.T) {
	all, err := models.SelectGames("")
	require.NoError(t, err)
	require.Equal(t, models.GameTypes(), all)

	one, err := models.SelectGames("trend")
	require.NoError(t, err)
	require.Equal(t, []models.GameType{models.GameTrend}, one)

	_, err = models.SelectGames("tempo")
	require.ErrorIs(t, err, models.ErrUnknownGame)
}

func TestPuzzle_WithID(t *testing.T) {
	puzzles := []models.Puzzle{
		models.PricecheckPuzzle{ID: 1},
		models.TrendPuzzle{ID: 1},
		models.RankPuzzle{ID: 1},
		models.CrossfirePuzzle{ID: 1},
		models.VersusPuzzle{ID: 1},
	}
	for i, p := range puzzles {
		renumbered := p.WithID(42)
		require.Equal(t, 42, renumbered.PuzzleID())
		require.Equal(t, 1, p.PuzzleID(), "original must be unchanged")
		require.Equal(t, models.GameTypes()[i], renumbered.Game())
	}
}

func TestNewGameResult(t *testing.T) {
	require.Equal(t, models.GameResult{Score: 2, MaxScore: 5, Completed: false}, models.NewGameResult(2))
	require.Equal(t, models.GameResult{Score: 3, MaxScore: 5, Completed: true}, models.NewGameResult(3))
	require.Equal(t, models.GameResult{Score: 5, MaxScore: 5, Completed: true}, models.NewGameResult(5))
}

func TestDailyPuzzle_RoundTrip(t *testing.T) {
	want := models.DailyPuzzle{
		Game:  models.GameRank,
		Day:   12,
		Index: 12,
		Puzzle: models.RankPuzzle{
			ID:       13,
			Category: "Geography",
			Question: "Largest countries by area",
			Items: []models.RankItem{
				{Name: "Russia", Value: 17098242},
				{Name: "Canada", Value: 9984670},
			},
		},
	}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got models.DailyPuzzle
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, want, got)
}

func TestDecodePuzzle_UnknownGame(t *testing.T) {
	_, err := models.DecodePuzzle("blindspot", []byte(`{"id":1}`))
	require.ErrorIs(t, err, models.ErrUnknownGame)
}
