package validate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/jsech3/GameIQ/internal/bankfile"
	"github.com/jsech3/GameIQ/internal/content"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/synth"
	"github.com/jsech3/GameIQ/internal/testhelpers"
	"github.com/jsech3/GameIQ/internal/validate"
	"github.com/stretchr/testify/require"
)

const testBankSize = 40

func synthesize(t *testing.T, game models.GameType) models.Bank {
	t.Helper()
	logger := testhelpers.NewLogger(io.Discard)
	catalog, err := content.Load(context.Background(), logger)
	require.NoError(t, err)
	config := synth.DefaultConfig()
	config.BankSize = testBankSize
	result, err := synth.New(catalog, config, logger).Synthesize(context.Background(), game, synth.DefaultSeedBase)
	require.NoError(t, err)
	return result.Bank
}

// generic returns bank decoded into plain JSON values so that tests can corrupt it freely.
func generic(t *testing.T, game models.GameType) []any {
	t.Helper()
	data, err := bankfile.Marshal(synthesize(t, game))
	require.NoError(t, err)
	var puzzles []any
	require.NoError(t, json.Unmarshal(data, &puzzles))
	return puzzles
}

func obj(v any) map[string]any {
	return v.(map[string]any) //nolint:forcetypeassert // test data
}

func round(puzzles []any, puzzle, r int) map[string]any {
	return obj(obj(puzzles[puzzle])["rounds"].([]any)[r]) //nolint:forcetypeassert // test data
}

func TestBank_ValidBanks(t *testing.T) {
	for _, game := range models.GameTypes() {
		t.Run(string(game), func(t *testing.T) {
			data, err := bankfile.Marshal(synthesize(t, game))
			require.NoError(t, err)

			report := &validate.Report{}
			validate.Bank(report, game, data)
			require.True(t, report.Passed(), report.FailuresFor(game))
			require.Len(t, report.Entries(), 1)
			require.True(t, report.Entries()[0].OK)
			require.True(t, strings.HasPrefix(report.Entries()[0].Message, "40 puzzles"))
		})
	}
}

func TestBank_Failures(t *testing.T) {
	tests := []struct {
		name    string
		game    models.GameType
		corrupt func(puzzles []any) []any
		want    []string
	}{
		{
			name: "pricecheck shown equals actual",
			game: models.GamePricecheck,
			corrupt: func(puzzles []any) []any {
				r := round(puzzles, 3, 2)
				r["shownValue"] = r["actualValue"]
				return puzzles
			},
			want: []string{"Puzzle 4: shownValue equals actualValue for"},
		},
		{
			name: "pricecheck missing unit",
			game: models.GamePricecheck,
			corrupt: func(puzzles []any) []any {
				delete(round(puzzles, 0, 0), "unit")
				return puzzles
			},
			want: []string{"Puzzle 1 has incomplete round 1"},
		},
		{
			name: "pricecheck four rounds",
			game: models.GamePricecheck,
			corrupt: func(puzzles []any) []any {
				p := obj(puzzles[9])
				p["rounds"] = p["rounds"].([]any)[:4]
				return puzzles
			},
			want: []string{"Puzzle 10 has 4 rounds (need 5)"},
		},
		{
			name: "trend short hidden and bad answer",
			game: models.GameTrend,
			corrupt: func(puzzles []any) []any {
				r := round(puzzles, 0, 1)
				r["hidden"] = r["hidden"].([]any)[:2]
				round(puzzles, 1, 0)["answer"] = "sideways"
				return puzzles
			},
			want: []string{"hidden has 2 points (need 3)", `Puzzle 2: invalid answer "sideways"`},
		},
		{
			name: "rank out of order",
			game: models.GameRank,
			corrupt: func(puzzles []any) []any {
				items := obj(puzzles[0])["items"].([]any)
				items[0], items[1] = items[1], items[0]
				return puzzles
			},
			want: []string{"items not in descending order at position 1"},
		},
		{
			name: "rank tie",
			game: models.GameRank,
			corrupt: func(puzzles []any) []any {
				items := obj(puzzles[0])["items"].([]any)
				obj(items[3])["value"] = obj(items[2])["value"]
				return puzzles
			},
			want: []string{"items not in descending order at position 3"},
		},
		{
			name: "rank missing question",
			game: models.GameRank,
			corrupt: func(puzzles []any) []any {
				delete(obj(puzzles[5]), "question")
				return puzzles
			},
			want: []string{"Puzzle 6 missing category or question"},
		},
		{
			name: "crossfire duplicate answer",
			game: models.GameCrossfire,
			corrupt: func(puzzles []any) []any {
				round(puzzles, 2, 4)["answer"] = round(puzzles, 2, 0)["answer"]
				return puzzles
			},
			want: []string{"Puzzle 3: duplicate answer"},
		},
		{
			name: "crossfire missing clue",
			game: models.GameCrossfire,
			corrupt: func(puzzles []any) []any {
				delete(round(puzzles, 0, 0), "clue2")
				return puzzles
			},
			want: []string{"Puzzle 1 has incomplete round 1"},
		},
		{
			name: "versus tie",
			game: models.GameVersus,
			corrupt: func(puzzles []any) []any {
				r := round(puzzles, 0, 0)
				obj(r["optionB"])["value"] = obj(r["optionA"])["value"]
				return puzzles
			},
			want: []string{"tie, the round is ambiguous"},
		},
		{
			name: "versus missing direction and option",
			game: models.GameVersus,
			corrupt: func(puzzles []any) []any {
				delete(round(puzzles, 0, 0), "higherWins")
				delete(round(puzzles, 0, 1), "optionA")
				return puzzles
			},
			want: []string{"Puzzle 1 has incomplete round 1", "Puzzle 1 round 2 is missing an option name or value"},
		},
		{
			name: "ids not dense",
			game: models.GameTrend,
			corrupt: func(puzzles []any) []any {
				obj(puzzles[0])["id"] = 7
				delete(obj(puzzles[1]), "id")
				return puzzles
			},
			want: []string{"Puzzle at position 1 has id 7 (want 1)", "Puzzle at position 2 has no id"},
		},
		{
			name: "too small",
			game: models.GameRank,
			corrupt: func(puzzles []any) []any {
				return puzzles[:29]
			},
			want: []string{"Only 29 puzzles (need >= 30)"},
		},
		{
			name: "malformed puzzle",
			game: models.GameCrossfire,
			corrupt: func(puzzles []any) []any {
				obj(puzzles[4])["rounds"] = "none"
				return puzzles
			},
			want: []string{"Puzzle at position 5 is malformed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.corrupt(generic(t, tt.game)))
			require.NoError(t, err)

			report := &validate.Report{}
			validate.Bank(report, tt.game, data)

			failures := report.FailuresFor(tt.game)
			require.Len(t, failures, len(tt.want))
			for i, want := range tt.want {
				require.Contains(t, failures[i], want)
			}
			require.Equal(t, len(tt.want), report.Failures())
		})
	}
}

func TestBank_NotAnArray(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "object", data: `{"puzzles": []}`, want: "Not an array"},
		{name: "null", data: `null`, want: "Not an array"},
		{name: "garbage", data: `[{"id": 1`, want: "Invalid JSON"},
		{name: "empty", data: ``, want: "Invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &validate.Report{}
			validate.Bank(report, models.GameRank, []byte(tt.data))
			require.Equal(t, []string{tt.want}, report.FailuresFor(models.GameRank))
		})
	}
}

func TestBanks_ReadsStore(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	store := bankfile.NewStore(t.TempDir(), logger)
	require.NoError(t, store.Write(ctx, synthesize(t, models.GameVersus)))

	report := validate.Banks(ctx, store, []models.GameType{models.GameVersus, models.GameTrend}, logger)
	require.Equal(t, 1, report.Failures())
	require.Empty(t, report.FailuresFor(models.GameVersus))
	require.Len(t, report.FailuresFor(models.GameTrend), 1)
	require.Contains(t, report.FailuresFor(models.GameTrend)[0], "Cannot read bank file")
}

func TestEncoded(t *testing.T) {
	bank := synthesize(t, models.GameRank)
	report, err := validate.Encoded(bank)
	require.NoError(t, err)
	require.True(t, report.Passed())

	bank.Puzzles = bank.Puzzles[:10]
	report, err = validate.Encoded(bank)
	require.NoError(t, err)
	require.False(t, report.Passed())
}

func TestReport_Print(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	store := bankfile.NewStore(t.TempDir(), logger)
	require.NoError(t, store.Write(ctx, synthesize(t, models.GameRank)))

	var buf bytes.Buffer
	require.NoError(t, validate.Banks(ctx, store, []models.GameType{models.GameRank}, logger).Print(&buf))
	require.Equal(t, "Validating puzzle banks...\n\n  OK   [rank]: 40 puzzles\n\nAll validations passed!\n", buf.String())

	buf.Reset()
	report := &validate.Report{}
	validate.Bank(report, models.GameTrend, []byte(`{}`))
	validate.Bank(report, models.GameCrossfire, []byte(`[]`))
	require.NoError(t, report.Print(&buf))
	require.Equal(t, "Validating puzzle banks...\n\n"+
		"  FAIL [trend]: Not an array\n"+
		"  FAIL [crossfire]: Only 0 puzzles (need >= 30)\n"+
		"\n2 error(s) found.\n", buf.String())
}
