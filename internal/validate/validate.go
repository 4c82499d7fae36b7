package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jsech3/GameIQ/internal/bankfile"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
)

// MinPuzzles is the smallest bank that is accepted for publishing.
const MinPuzzles = 30

// Banks validates the bank file of every game in games and returns the combined report.
func Banks(ctx context.Context, store *bankfile.Store, games []models.GameType, logger *slog.Logger) *Report {
	report := &Report{}
	for _, game := range games {
		data, err := store.ReadRaw(game)
		if err != nil {
			report.fail(game, "Cannot read bank file: %v", errors.Unwrap(err))
			continue
		}
		before := report.Failures()
		Bank(report, game, data)
		logger.LogAttrs(ctx, slog.LevelDebug, "validated bank",
			slog.String("game", string(game)),
			slog.Int("failures", report.Failures()-before))
	}
	return report
}

// Encoded validates bank exactly as it would be written to disk.
func Encoded(bank models.Bank) (*Report, error) {
	data, err := bankfile.Marshal(bank)
	if err != nil {
		return nil, err
	}
	report := &Report{}
	Bank(report, bank.Game, data)
	return report, nil
}

// Bank validates the raw contents of the bank file of game and records the outcome in report.
func Bank(report *Report, game models.GameType, data []byte) {
	if !json.Valid(data) {
		report.fail(game, "Invalid JSON")
		return
	}
	var raw []json.RawMessage
	if trimmed := bytes.TrimSpace(data); trimmed[0] != '[' || json.Unmarshal(trimmed, &raw) != nil {
		report.fail(game, "Not an array")
		return
	}
	if len(raw) < MinPuzzles {
		report.fail(game, "Only %d puzzles (need >= %d)", len(raw), MinPuzzles)
		return
	}

	switch game {
	case models.GamePricecheck:
		checkPricecheck(report, decodeDocs[pricecheckDoc](report, game, raw))
	case models.GameTrend:
		checkTrend(report, decodeDocs[trendDoc](report, game, raw))
	case models.GameRank:
		checkRank(report, decodeDocs[rankDoc](report, game, raw))
	case models.GameCrossfire:
		checkCrossfire(report, decodeDocs[crossfireDoc](report, game, raw))
	case models.GameVersus:
		checkVersus(report, decodeDocs[versusDoc](report, game, raw))
	default:
		report.fail(game, "Unknown game")
	}
}

// doc is the loosely typed form of a puzzle. Pointer fields distinguish absent values from zero values.
type doc interface {
	id() *int
}

type positioned[D doc] struct {
	pos int
	doc D
}

// label names a puzzle in messages by its id, or by its position when the id is missing.
func (p positioned[D]) label() string {
	if id := p.doc.id(); id != nil {
		return fmt.Sprintf("Puzzle %d", *id)
	}
	return fmt.Sprintf("Puzzle at position %d", p.pos)
}

// decodeDocs decodes every puzzle and checks that ids run densely from 1. Undecodable puzzles are reported and
// skipped.
func decodeDocs[D doc](report *Report, game models.GameType, raw []json.RawMessage) []positioned[D] {
	docs := make([]positioned[D], 0, len(raw))
	for i, msg := range raw {
		pos := i + 1
		var d D
		if err := json.Unmarshal(msg, &d); err != nil {
			report.fail(game, "Puzzle at position %d is malformed: %v", pos, err)
			continue
		}
		switch id := d.id(); {
		case id == nil:
			report.fail(game, "Puzzle at position %d has no id", pos)
		case *id != pos:
			report.fail(game, "Puzzle at position %d has id %d (want %d)", pos, *id, pos)
		}
		docs = append(docs, positioned[D]{pos: pos, doc: d})
	}
	return docs
}

func missing(s *string) bool {
	return s == nil || *s == ""
}

type pricecheckRoundDoc struct {
	Category    *string  `json:"category"`
	Item        *string  `json:"item"`
	ShownValue  *float64 `json:"shownValue"`
	ActualValue *float64 `json:"actualValue"`
	Unit        *string  `json:"unit"`
}

type pricecheckDoc struct {
	ID     *int                 `json:"id"`
	Rounds []pricecheckRoundDoc `json:"rounds"`
}

func (d pricecheckDoc) id() *int { return d.ID }

func checkPricecheck(report *Report, docs []positioned[pricecheckDoc]) {
	const game = models.GamePricecheck
	higher, lower := 0, 0
	for _, p := range docs {
		if len(p.doc.Rounds) != models.RoundsPerPuzzle {
			report.fail(game, "%s has %d rounds (need %d)", p.label(), len(p.doc.Rounds), models.RoundsPerPuzzle)
			continue
		}
		for i, r := range p.doc.Rounds {
			// Unit may be empty for plain counts but must be present.
			if missing(r.Category) || missing(r.Item) || r.ShownValue == nil || r.ActualValue == nil || r.Unit == nil {
				report.fail(game, "%s has incomplete round %d", p.label(), i+1)
				continue
			}
			if *r.ShownValue == *r.ActualValue {
				report.fail(game, "%s: shownValue equals actualValue for %q", p.label(), *r.Item)
			}
			if *r.ActualValue > *r.ShownValue {
				higher++
			} else {
				lower++
			}
		}
	}
	report.ok(game, "%d puzzles, %d higher / %d lower", len(docs), higher, lower)
}

type trendRoundDoc struct {
	Category *string   `json:"category"`
	Title    *string   `json:"title"`
	Data     []float64 `json:"data"`
	Hidden   []float64 `json:"hidden"`
	Answer   *string   `json:"answer"`
	Source   *string   `json:"source"`
}

type trendDoc struct {
	ID     *int            `json:"id"`
	Rounds []trendRoundDoc `json:"rounds"`
}

func (d trendDoc) id() *int { return d.ID }

func checkTrend(report *Report, docs []positioned[trendDoc]) {
	const game = models.GameTrend
	counts := make(map[models.TrendAnswer]int, len(models.TrendAnswers()))
	for _, p := range docs {
		if len(p.doc.Rounds) != models.RoundsPerPuzzle {
			report.fail(game, "%s has %d rounds (need %d)", p.label(), len(p.doc.Rounds), models.RoundsPerPuzzle)
			continue
		}
		for i, r := range p.doc.Rounds {
			if missing(r.Category) || missing(r.Title) || r.Data == nil || r.Hidden == nil ||
				missing(r.Answer) || missing(r.Source) {
				report.fail(game, "%s has incomplete round %d", p.label(), i+1)
			}
			title := ""
			if r.Title != nil {
				title = *r.Title
			}
			if len(r.Data) != models.TrendVisiblePoints {
				report.fail(game, "%s %q: data has %d points (need %d)",
					p.label(), title, len(r.Data), models.TrendVisiblePoints)
			}
			if len(r.Hidden) != models.TrendHiddenPoints {
				report.fail(game, "%s %q: hidden has %d points (need %d)",
					p.label(), title, len(r.Hidden), models.TrendHiddenPoints)
			}
			if r.Answer == nil {
				continue
			}
			answer := models.TrendAnswer(*r.Answer)
			if !answer.Valid() {
				report.fail(game, "%s: invalid answer %q", p.label(), *r.Answer)
				continue
			}
			counts[answer]++
		}
	}
	report.ok(game, "%d puzzles, up: %d, down: %d, flat: %d",
		len(docs), counts[models.TrendUp], counts[models.TrendDown], counts[models.TrendFlat])
}

type rankItemDoc struct {
	Name  *string  `json:"name"`
	Value *float64 `json:"value"`
}

type rankDoc struct {
	ID       *int          `json:"id"`
	Category *string       `json:"category"`
	Question *string       `json:"question"`
	Items    []rankItemDoc `json:"items"`
}

func (d rankDoc) id() *int { return d.ID }

func checkRank(report *Report, docs []positioned[rankDoc]) {
	const game = models.GameRank
	for _, p := range docs {
		if len(p.doc.Items) != models.RoundsPerPuzzle {
			report.fail(game, "%s has %d items (need %d)", p.label(), len(p.doc.Items), models.RoundsPerPuzzle)
			continue
		}
		if missing(p.doc.Category) || missing(p.doc.Question) {
			report.fail(game, "%s missing category or question", p.label())
		}
		complete := true
		for i, item := range p.doc.Items {
			if missing(item.Name) || item.Value == nil {
				report.fail(game, "%s item %d is missing name or value", p.label(), i+1)
				complete = false
			}
		}
		if !complete {
			continue
		}
		for i := 1; i < len(p.doc.Items); i++ {
			// Equal values would make two orders correct.
			if *p.doc.Items[i].Value >= *p.doc.Items[i-1].Value {
				question := ""
				if p.doc.Question != nil {
					question = *p.doc.Question
				}
				report.fail(game, "%s %q: items not in descending order at position %d", p.label(), question, i)
				break
			}
		}
	}
	report.ok(game, "%d puzzles", len(docs))
}

type clueDoc struct {
	Domain *string `json:"domain"`
	Hint   *string `json:"hint"`
}

func (c *clueDoc) incomplete() bool {
	return c == nil || missing(c.Domain) || missing(c.Hint)
}

type crossfireRoundDoc struct {
	Clue1           *clueDoc `json:"clue1"`
	Clue2           *clueDoc `json:"clue2"`
	Answer          *string  `json:"answer"`
	AcceptedAnswers []string `json:"acceptedAnswers"`
}

type crossfireDoc struct {
	ID     *int                `json:"id"`
	Rounds []crossfireRoundDoc `json:"rounds"`
}

func (d crossfireDoc) id() *int { return d.ID }

func checkCrossfire(report *Report, docs []positioned[crossfireDoc]) {
	const game = models.GameCrossfire
	words := make(map[string]bool)
	for _, p := range docs {
		if len(p.doc.Rounds) != models.RoundsPerPuzzle {
			report.fail(game, "%s has %d rounds (need %d)", p.label(), len(p.doc.Rounds), models.RoundsPerPuzzle)
			continue
		}
		seen := make(map[string]bool, models.RoundsPerPuzzle)
		for i, r := range p.doc.Rounds {
			if r.Clue1.incomplete() || r.Clue2.incomplete() || missing(r.Answer) {
				report.fail(game, "%s has incomplete round %d", p.label(), i+1)
			}
			if len(r.AcceptedAnswers) == 0 {
				report.fail(game, "%s round %d has no accepted answers", p.label(), i+1)
			}
			if r.Answer == nil {
				continue
			}
			if seen[*r.Answer] {
				report.fail(game, "%s: duplicate answer %q within puzzle", p.label(), *r.Answer)
			}
			seen[*r.Answer] = true
			words[*r.Answer] = true
		}
	}
	report.ok(game, "%d puzzles, %d unique words", len(docs), len(words))
}

type optionDoc struct {
	Name  *string  `json:"name"`
	Value *float64 `json:"value"`
	Unit  *string  `json:"unit"`
}

func (o *optionDoc) incomplete() bool {
	return o == nil || missing(o.Name) || o.Value == nil
}

type versusRoundDoc struct {
	Category   *string    `json:"category"`
	Metric     *string    `json:"metric"`
	OptionA    *optionDoc `json:"optionA"`
	OptionB    *optionDoc `json:"optionB"`
	HigherWins *bool      `json:"higherWins"`
}

type versusDoc struct {
	ID     *int             `json:"id"`
	Rounds []versusRoundDoc `json:"rounds"`
}

func (d versusDoc) id() *int { return d.ID }

func checkVersus(report *Report, docs []positioned[versusDoc]) {
	const game = models.GameVersus
	higher, lower := 0, 0
	for _, p := range docs {
		if len(p.doc.Rounds) != models.RoundsPerPuzzle {
			report.fail(game, "%s has %d rounds (need %d)", p.label(), len(p.doc.Rounds), models.RoundsPerPuzzle)
			continue
		}
		for i, r := range p.doc.Rounds {
			if missing(r.Category) || missing(r.Metric) || r.HigherWins == nil {
				report.fail(game, "%s has incomplete round %d", p.label(), i+1)
			}
			if r.OptionA.incomplete() || r.OptionB.incomplete() {
				report.fail(game, "%s round %d is missing an option name or value", p.label(), i+1)
				continue
			}
			if *r.OptionA.Value == *r.OptionB.Value {
				report.fail(game, "%s: %q and %q tie, the round is ambiguous",
					p.label(), *r.OptionA.Name, *r.OptionB.Name)
			}
			if r.HigherWins == nil {
				continue
			}
			if *r.HigherWins {
				higher++
			} else {
				lower++
			}
		}
	}
	report.ok(game, "%d puzzles, %d higher-wins / %d lower-wins rounds", len(docs), higher, lower)
}
