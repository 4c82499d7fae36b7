package synth

import (
	"github.com/jsech3/GameIQ/internal/content"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/random"
)

// Series shape. Bases fall in [10, 1000), visible steps move at most half the volatility either way and hidden
// steps drift 2% to 12% per step for up and down or under 1% for flat.
const (
	minBase       = 10
	baseRange     = 990
	minVolatility = 0.02
	volRange      = 0.08
	minDrift      = 0.02
	driftRange    = 0.1
	flatDrift     = 0.02
)

func (b *builder) trend(tables content.TrendTables) ([]models.Puzzle, error) {
	if len(tables.Titles) == 0 || len(tables.Categories) == 0 || len(tables.Sources) == 0 {
		return nil, errors.New("trend tables are incomplete")
	}
	answers := models.TrendAnswers()
	titles := random.Shuffle(b.rng, tables.Titles)
	titleIdx := 0

	puzzles := make([]models.Puzzle, 0, b.size)
	for id := 1; id <= b.size; id++ {
		if err := b.checkpoint(); err != nil {
			return nil, err
		}
		used := make(map[string]bool, models.RoundsPerPuzzle)
		rounds := make([]models.TrendRound, 0, models.RoundsPerPuzzle)

		for r := range models.RoundsPerPuzzle {
			// Cycling by position balances the answers across the bank.
			answer := answers[(id*models.RoundsPerPuzzle+r)%len(answers)]
			title := titles[titleIdx%len(titles)]
			titleIdx++

			category := random.Pick(b.rng, tables.Categories)
			attempts := 0
			for used[category] && attempts < b.policy.MaxAttempts {
				category = random.Pick(b.rng, tables.Categories)
				attempts++
			}
			if used[category] {
				b.degrade(id, r, attempts, category)
			}
			used[category] = true

			data, hidden := b.series(answer)
			rounds = append(rounds, models.TrendRound{
				Category: category,
				Title:    title,
				Data:     data,
				Hidden:   hidden,
				Answer:   answer,
				Source:   random.Pick(b.rng, tables.Sources),
			})
		}
		puzzles = append(puzzles, models.TrendPuzzle{ID: id, Rounds: rounds})
	}
	return puzzles, nil
}

// series returns a random walk of visible points and a continuation that drifts toward answer.
func (b *builder) series(answer models.TrendAnswer) ([]float64, []float64) {
	base := minBase + b.rng.Float64()*baseRange
	volatility := minVolatility + b.rng.Float64()*volRange

	data := make([]float64, 0, models.TrendVisiblePoints)
	data = append(data, round(base))
	for i := 1; i < models.TrendVisiblePoints; i++ {
		prev := data[i-1]
		change := prev * volatility * (b.rng.Float64() - 0.5) //nolint:mnd // centre on zero
		data = append(data, round(prev+change))
	}

	hidden := make([]float64, 0, models.TrendHiddenPoints)
	last := data[len(data)-1]
	for range models.TrendHiddenPoints {
		var delta float64
		switch answer {
		case models.TrendUp:
			delta = last * (minDrift + b.rng.Float64()*driftRange)
		case models.TrendDown:
			delta = -last * (minDrift + b.rng.Float64()*driftRange)
		case models.TrendFlat:
			delta = last * (b.rng.Float64() - 0.5) * flatDrift //nolint:mnd // centre on zero
		}
		last = round(last + delta)
		hidden = append(hidden, last)
	}
	return data, hidden
}
