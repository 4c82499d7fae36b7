package refresh

import (
	"embed"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"text/template"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
)

//go:embed prompts/*.tmpl
var promptFiles embed.FS

var prompts = template.Must(template.New("").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(promptFiles, "prompts/*.tmpl"))

type promptData struct {
	BatchSize int
	StartID   int
	Avoid     []string
}

// Prompt renders the request for batchSize new puzzles of game. Every distinct key of the bank is listed as
// off limits, matching what the duplicate filter rejects.
func Prompt(game models.GameType, startID, batchSize int, keys []string) (string, error) {
	avoid := uniqueKeys(keys)

	var b strings.Builder
	err := prompts.ExecuteTemplate(&b, string(game)+".tmpl", promptData{
		BatchSize: batchSize,
		StartID:   startID,
		Avoid:     avoid,
	})
	if err != nil {
		return "", errors.Wrap(err, "render prompt", slog.String("game", string(game)))
	}
	return b.String(), nil
}

// uniqueKeys drops keys that normalize to one already seen. The first spelling is kept.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var unique []string
	for _, k := range keys {
		n := normalizeKey(k)
		if seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, k)
	}
	return unique
}

// Keys returns the identifying strings of puzzles in bank order, e.g., the pricecheck items.
func Keys(puzzles []models.Puzzle) []string {
	var keys []string
	for _, p := range puzzles {
		keys = append(keys, PuzzleKeys(p)...)
	}
	return keys
}

// PuzzleKeys returns the strings that must not repeat across a bank for one puzzle.
func PuzzleKeys(puzzle models.Puzzle) []string {
	var keys []string
	switch p := puzzle.(type) {
	case models.PricecheckPuzzle:
		for _, r := range p.Rounds {
			keys = append(keys, r.Item)
		}
	case models.TrendPuzzle:
		for _, r := range p.Rounds {
			keys = append(keys, r.Title)
		}
	case models.RankPuzzle:
		keys = append(keys, p.Question)
	case models.CrossfirePuzzle:
		for _, r := range p.Rounds {
			keys = append(keys, r.Answer)
		}
	case models.VersusPuzzle:
		// Metrics repeat across different pairs, so the pair is part of the key.
		for _, r := range p.Rounds {
			names := []string{r.OptionA.Name, r.OptionB.Name}
			slices.Sort(names)
			keys = append(keys, fmt.Sprintf("%s %s vs %s", r.Metric, names[0], names[1]))
		}
	}
	return keys
}

var fencedJSON = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ExtractJSON returns the contents of the first fenced code block of a completion, or the whole text without one.
func ExtractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
