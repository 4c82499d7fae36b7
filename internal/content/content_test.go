package content_test

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/jsech3/GameIQ/internal/content"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	catalog, err := content.Load(context.Background(), testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)

	require.NotEmpty(t, catalog.Prices)
	require.GreaterOrEqual(t, len(catalog.Trend.Categories), models.RoundsPerPuzzle)
	require.NotEmpty(t, catalog.Trend.Titles)
	require.NotEmpty(t, catalog.Trend.Sources)
	require.NotEmpty(t, catalog.RankTemplates)
	require.GreaterOrEqual(t, len(catalog.Words), models.RoundsPerPuzzle)
	require.GreaterOrEqual(t, len(catalog.Comparisons), models.RoundsPerPuzzle)

	for _, tmpl := range catalog.RankTemplates {
		require.Len(t, tmpl.Items, models.RoundsPerPuzzle, tmpl.Question)
	}
	for _, cmp := range catalog.Comparisons {
		require.True(t, cmp.WinDirection.Valid(), cmp.Metric)
		require.NotEqual(t, cmp.OptionA.Value, cmp.OptionB.Value, cmp.Metric)
	}
}

const (
	validPrices = `[{"category":"Rent","item":"Rent in Austin","actualValue":1750,"unit":"$"}]`
	validTrend  = `{"categories":["A","B","C","D","E"],"titles":["T"],"sources":["S"]}`
	validRank   = `[{"category":"Geography","question":"Order rivers by length","items":[
		{"name":"Nile","value":4132},{"name":"Amazon","value":4000},{"name":"Yangtze","value":3917},
		{"name":"Mississippi","value":2340},{"name":"Danube","value":1770}]}]`
	validWords = `[
		{"answer":"BARK","clue1":{"domain":"Nature","hint":"h"},"clue2":{"domain":"Animals","hint":"h"}},
		{"answer":"BANK","clue1":{"domain":"Finance","hint":"h"},"clue2":{"domain":"Geography","hint":"h"}},
		{"answer":"BAT","clue1":{"domain":"Sports","hint":"h"},"clue2":{"domain":"Animals","hint":"h"}},
		{"answer":"BOLT","clue1":{"domain":"Construction","hint":"h"},"clue2":{"domain":"Weather","hint":"h"}},
		{"answer":"BOW","clue1":{"domain":"Music","hint":"h"},"clue2":{"domain":"Fashion","hint":"h"}}]`
)

func comparisons(direction string, a, b int) string {
	one := `{"category":"Geography","metric":"Which river is longer?","winDirection":"` + direction +
		`","optionA":{"name":"A","value":` + strconv.Itoa(a) + `,"unit":""},"optionB":{"name":"B","value":` + strconv.Itoa(b) +
		`,"unit":""}}`
	return "[" + one + "," + one + "," + one + "," + one + "," + one + "]"
}

func catalogFS(overrides map[string]string) fstest.MapFS {
	files := map[string]string{
		"pricecheck.json": validPrices,
		"trend.json":      validTrend,
		"rank.json":       validRank,
		"crossfire.json":  validWords,
		"versus.json":     comparisons("higher", 1, 2),
	}
	for name, data := range overrides {
		files[name] = data
	}
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fsys
}

func TestLoadFS(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		wantErr   error
		wantAny   bool
	}{
		{name: "valid", overrides: nil},
		{
			name: "rank tie",
			overrides: map[string]string{"rank.json": `[{"category":"c","question":"q","items":[
				{"name":"a","value":5},{"name":"b","value":5},{"name":"c","value":3},{"name":"d","value":2},
				{"name":"e","value":1}]}]`},
			wantErr: content.ErrInvalidCatalog,
		},
		{
			name:      "rank template with one item",
			overrides: map[string]string{"rank.json": `[{"category":"c","question":"q","items":[{"name":"a","value":5}]}]`},
			wantErr:   content.ErrInvalidCatalog,
		},
		{
			name: "duplicate crossfire answer",
			overrides: map[string]string{"crossfire.json": `[
				{"answer":"BAT","clue1":{"domain":"a","hint":"h"},"clue2":{"domain":"b","hint":"h"}},
				{"answer":"BAT","clue1":{"domain":"a","hint":"h"},"clue2":{"domain":"b","hint":"h"}},
				{"answer":"BOW","clue1":{"domain":"a","hint":"h"},"clue2":{"domain":"b","hint":"h"}},
				{"answer":"BARK","clue1":{"domain":"a","hint":"h"},"clue2":{"domain":"b","hint":"h"}},
				{"answer":"BANK","clue1":{"domain":"a","hint":"h"},"clue2":{"domain":"b","hint":"h"}}]`},
			wantErr: content.ErrInvalidCatalog,
		},
		{
			name:      "versus tie",
			overrides: map[string]string{"versus.json": comparisons("higher", 3, 3)},
			wantErr:   content.ErrInvalidCatalog,
		},
		{
			name:      "versus without direction",
			overrides: map[string]string{"versus.json": comparisons("sideways", 1, 2)},
			wantErr:   content.ErrInvalidCatalog,
		},
		{
			name:      "unknown field",
			overrides: map[string]string{"pricecheck.json": `[{"category":"c","item":"i","actualValue":1,"unit":"","x":1}]`},
			wantAny:   true,
		},
		{
			name:      "not json",
			overrides: map[string]string{"trend.json": `{`},
			wantAny:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := content.LoadFS(context.Background(), catalogFS(tt.overrides), testhelpers.NewLogger(io.Discard))
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantAny:
				require.Error(t, err)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadFS_LintsWinDirection(t *testing.T) {
	var logs bytes.Buffer
	_, err := content.LoadFS(context.Background(),
		catalogFS(map[string]string{"versus.json": comparisons("lower", 1, 2)}),
		testhelpers.NewLogger(&logs))
	require.NoError(t, err)
	require.Contains(t, logs.String(), "win direction disagrees with metric wording")
}

func TestSuggestWinDirection(t *testing.T) {
	tests := []struct {
		metric string
		want   models.WinDirection
	}{
		{metric: "Which was founded first?", want: models.LowerWins},
		{metric: "Which civilization is older?", want: models.LowerWins},
		{metric: "Which planet is closer to the Sun?", want: models.LowerWins},
		{metric: "Which is colder (average temp)?", want: models.LowerWins},
		{metric: "Which country has a lower population density?", want: models.LowerWins},
		{metric: "Which planet spins faster (shorter day)?", want: models.LowerWins},
		{metric: "Which river is longer?", want: models.HigherWins},
		{metric: "Which has more monthly active users?", want: models.HigherWins},
		{metric: "Which animal is faster?", want: models.HigherWins},
		{metric: "Which marathon is older?", want: models.LowerWins},
	}
	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			require.Equal(t, tt.want, content.SuggestWinDirection(tt.metric))
		})
	}
}
