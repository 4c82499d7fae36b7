// Package content holds the curated fact tables the synthesizer draws puzzles from.
package content

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
)

//go:embed data/*.json
var embedded embed.FS

var ErrInvalidCatalog = errors.NewSentinel("invalid content catalog")

// PriceFact is a real-world number shown with a deliberate error in pricecheck rounds.
type PriceFact struct {
	Category    string `json:"category"`
	Item        string `json:"item"`
	ActualValue int64  `json:"actualValue"`
	Unit        string `json:"unit"`
}

// TrendTables are the labels trend rounds are dressed in. The series themselves are synthetic.
type TrendTables struct {
	Categories []string `json:"categories"`
	Titles     []string `json:"titles"`
	Sources    []string `json:"sources"`
}

type RankTemplate struct {
	Category string            `json:"category"`
	Question string            `json:"question"`
	Items    []models.RankItem `json:"items"`
}

// Word has two unrelated meanings, one per clue.
type Word struct {
	Answer string      `json:"answer"`
	Clue1  models.Clue `json:"clue1"`
	Clue2  models.Clue `json:"clue2"`
}

// Comparison is a versus record. WinDirection is authored explicitly; see [SuggestWinDirection] for the lint.
type Comparison struct {
	Category     string              `json:"category"`
	Metric       string              `json:"metric"`
	WinDirection models.WinDirection `json:"winDirection"`
	OptionA      models.VersusOption `json:"optionA"`
	OptionB      models.VersusOption `json:"optionB"`
}

// Catalog is the complete set of tables. It is read-only after loading and safe to share between goroutines.
type Catalog struct {
	Prices        []PriceFact
	Trend         TrendTables
	RankTemplates []RankTemplate
	Words         []Word
	Comparisons   []Comparison
}

// Load reads the tables embedded in the binary.
func Load(ctx context.Context, logger *slog.Logger) (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, errors.Wrap(err, "open embedded content")
	}
	return LoadFS(ctx, sub, logger)
}

// LoadFS reads pricecheck.json, trend.json, rank.json, crossfire.json and versus.json from fsys and checks them.
func LoadFS(ctx context.Context, fsys fs.FS, logger *slog.Logger) (*Catalog, error) {
	var (
		catalog Catalog
		err     error
	)
	logger = logger.With("source", "content")

	if err = decodeFile(fsys, "pricecheck.json", &catalog.Prices); err != nil {
		return nil, err
	}
	if err = decodeFile(fsys, "trend.json", &catalog.Trend); err != nil {
		return nil, err
	}
	if err = decodeFile(fsys, "rank.json", &catalog.RankTemplates); err != nil {
		return nil, err
	}
	if err = decodeFile(fsys, "crossfire.json", &catalog.Words); err != nil {
		return nil, err
	}
	if err = decodeFile(fsys, "versus.json", &catalog.Comparisons); err != nil {
		return nil, err
	}

	if err = catalog.check(); err != nil {
		return nil, err
	}
	catalog.lintWinDirections(ctx, logger)

	logger.LogAttrs(ctx, slog.LevelDebug, "loaded content",
		slog.Int("prices", len(catalog.Prices)),
		slog.Int("trendTitles", len(catalog.Trend.Titles)),
		slog.Int("rankTemplates", len(catalog.RankTemplates)),
		slog.Int("words", len(catalog.Words)),
		slog.Int("comparisons", len(catalog.Comparisons)))

	return &catalog, nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return errors.Wrap(err, "read content file", slog.String("file", name))
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err = dec.Decode(v); err != nil {
		return errors.Wrap(err, "decode content file", slog.String("file", name))
	}
	return nil
}

// check rejects tables that would make synthesis produce ambiguous or malformed puzzles.
func (c *Catalog) check() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(c.Prices) == 0 {
		add("no price facts")
	}
	for i, f := range c.Prices {
		if f.Category == "" || f.Item == "" {
			add("price fact %d is missing category or item", i)
		}
	}

	if len(c.Trend.Categories) < models.RoundsPerPuzzle {
		add("need at least %d trend categories, got %d", models.RoundsPerPuzzle, len(c.Trend.Categories))
	}
	if len(c.Trend.Titles) == 0 || len(c.Trend.Sources) == 0 {
		add("trend titles and sources must not be empty")
	}

	if len(c.RankTemplates) == 0 {
		add("no rank templates")
	}
	for _, tmpl := range c.RankTemplates {
		if len(tmpl.Items) != models.RoundsPerPuzzle {
			add("rank template %q has %d items", tmpl.Question, len(tmpl.Items))
		}
		values := make(map[float64]string, len(tmpl.Items))
		for _, item := range tmpl.Items {
			if other, ok := values[item.Value]; ok {
				add("rank template %q: %q and %q tie at %v", tmpl.Question, other, item.Name, item.Value)
			}
			values[item.Value] = item.Name
		}
	}

	if len(c.Words) < models.RoundsPerPuzzle {
		add("need at least %d crossfire words, got %d", models.RoundsPerPuzzle, len(c.Words))
	}
	answers := make(map[string]bool, len(c.Words))
	for _, w := range c.Words {
		if w.Answer == "" || w.Answer != strings.ToUpper(w.Answer) {
			add("crossfire answer %q must be non-empty upper case", w.Answer)
		}
		if answers[w.Answer] {
			add("crossfire answer %q is listed twice", w.Answer)
		}
		answers[w.Answer] = true
	}

	if len(c.Comparisons) < models.RoundsPerPuzzle {
		add("need at least %d comparisons, got %d", models.RoundsPerPuzzle, len(c.Comparisons))
	}
	for _, cmp := range c.Comparisons {
		if !cmp.WinDirection.Valid() {
			add("comparison %q (%s vs %s) has win direction %q",
				cmp.Metric, cmp.OptionA.Name, cmp.OptionB.Name, cmp.WinDirection)
		}
		if cmp.OptionA.Value == cmp.OptionB.Value {
			add("comparison %q: %s and %s tie", cmp.Metric, cmp.OptionA.Name, cmp.OptionB.Name)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.Wrap(ErrInvalidCatalog, strings.Join(problems, "; "), slog.Int("problems", len(problems)))
}

// lintWinDirections warns when an authored direction disagrees with the metric wording.
func (c *Catalog) lintWinDirections(ctx context.Context, logger *slog.Logger) {
	for _, cmp := range c.Comparisons {
		if suggested := SuggestWinDirection(cmp.Metric); suggested != cmp.WinDirection {
			logger.LogAttrs(ctx, slog.LevelWarn, "win direction disagrees with metric wording",
				slog.String("metric", cmp.Metric),
				slog.String("authored", string(cmp.WinDirection)),
				slog.String("suggested", string(suggested)))
		}
	}
}
