package bankfile_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsech3/GameIQ/internal/bankfile"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func versusBank() models.Bank {
	return models.Bank{
		Game: models.GameVersus,
		Puzzles: []models.Puzzle{
			models.VersusPuzzle{ID: 1, Rounds: []models.VersusRound{{
				Category:   "Food & Drink",
				Metric:     "Which has <more> calories?",
				OptionA:    models.VersusOption{Name: "Big Mac", Value: 550, Unit: "kcal"},
				OptionB:    models.VersusOption{Name: "Whopper", Value: 657.5, Unit: "kcal"},
				HigherWins: true,
			}}},
		},
	}
}

func TestMarshal_Format(t *testing.T) {
	data, err := bankfile.Marshal(versusBank())
	require.NoError(t, err)

	want := `[
  {
    "id": 1,
    "rounds": [
      {
        "category": "Food & Drink",
        "metric": "Which has <more> calories?",
        "optionA": {
          "name": "Big Mac",
          "value": 550,
          "unit": "kcal"
        },
        "optionB": {
          "name": "Whopper",
          "value": 657.5,
          "unit": "kcal"
        },
        "higherWins": true
      }
    ]
  }
]
`
	require.Equal(t, want, string(data))
}

func TestMarshal_EmptyBank(t *testing.T) {
	data, err := bankfile.Marshal(models.Bank{Game: models.GameRank})
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(data))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		game    models.GameType
		data    string
		wantLen int
		wantErr error
	}{
		{name: "rank", game: models.GameRank, data: `[{"id":1,"category":"c","question":"q","items":[]}]`, wantLen: 1},
		{name: "leading whitespace", game: models.GameCrossfire, data: "\n  [ ]", wantLen: 0},
		{name: "object", game: models.GameTrend, data: `{"id":1}`, wantErr: bankfile.ErrNotArray},
		{name: "empty", game: models.GameTrend, data: ``, wantErr: bankfile.ErrNotArray},
		{name: "unknown game", game: "tempo", data: `[]`, wantErr: models.ErrUnknownGame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank, err := bankfile.Decode(tt.game, []byte(tt.data))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.game, bank.Game)
			require.Len(t, bank.Puzzles, tt.wantLen)
		})
	}

	_, err := bankfile.Decode(models.GameRank, []byte(`[{"id":"one"}]`))
	require.Error(t, err)
}

func TestDecode_MatchesDecodePuzzle(t *testing.T) {
	element := `{"id":7,"category":"Space","question":"Order these planets by mass","items":[{"name":"Jupiter","value":318}]}`
	bank, err := bankfile.Decode(models.GameRank, []byte("["+element+"]"))
	require.NoError(t, err)
	single, err := models.DecodePuzzle(models.GameRank, []byte(element))
	require.NoError(t, err)
	require.Equal(t, []models.Puzzle{single}, bank.Puzzles)

	puzzles, err := bankfile.DecodePuzzles(models.GameVersus, []byte(`[{"id":1,"rounds":[]},{"id":2,"rounds":[]}]`))
	require.NoError(t, err)
	require.Len(t, puzzles, 2)
	require.IsType(t, models.VersusPuzzle{}, puzzles[1])
}

func TestStore_WriteRead(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := bankfile.NewStore(dir, testhelpers.NewLogger(io.Discard))
	bank := versusBank()

	require.NoError(t, store.Write(ctx, bank))

	path := bankfile.Path(dir, models.GameVersus)
	require.Equal(t, filepath.Join(dir, "versus", "puzzles.json"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	got, err := store.Read(ctx, models.GameVersus)
	require.NoError(t, err)
	require.Equal(t, bank, got)

	raw, err := store.ReadRaw(models.GameVersus)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(raw), "]\n"))

	// Overwriting leaves no temporary files behind.
	bank.Puzzles = append(bank.Puzzles, bank.Puzzles[0].WithID(2))
	require.NoError(t, store.Write(ctx, bank))
	entries, err := os.ReadDir(filepath.Join(dir, "versus"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err = store.Read(ctx, models.GameVersus)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
}

func TestStore_ReadMissing(t *testing.T) {
	store := bankfile.NewStore(t.TempDir(), testhelpers.NewLogger(io.Discard))
	_, err := store.Read(context.Background(), models.GameTrend)
	require.ErrorIs(t, err, os.ErrNotExist)
}
