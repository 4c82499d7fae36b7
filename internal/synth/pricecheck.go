package synth

import (
	"github.com/jsech3/GameIQ/internal/content"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/random"
)

const (
	minMargin   = 0.05
	marginRange = 0.75
)

func (b *builder) pricecheck(facts []content.PriceFact) ([]models.Puzzle, error) {
	if len(facts) == 0 {
		return nil, errors.New("no price facts")
	}
	var categories []string
	byCategory := make(map[string][]content.PriceFact)
	for _, f := range facts {
		if _, ok := byCategory[f.Category]; !ok {
			categories = append(categories, f.Category)
		}
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}

	puzzles := make([]models.Puzzle, 0, b.size)
	for id := 1; id <= b.size; id++ {
		if err := b.checkpoint(); err != nil {
			return nil, err
		}
		used := make(map[string]bool, models.RoundsPerPuzzle)
		shuffled := random.Shuffle(b.rng, categories)
		rounds := make([]models.PricecheckRound, 0, models.RoundsPerPuzzle)

		for r := range models.RoundsPerPuzzle {
			category := shuffled[r%len(shuffled)]
			attempts := 0
			for used[category] && attempts < b.policy.MaxAttempts {
				category = random.Pick(b.rng, categories)
				attempts++
			}
			if used[category] {
				b.degrade(id, r, attempts, category)
			}
			used[category] = true

			fact := random.Pick(b.rng, byCategory[category])
			rounds = append(rounds, models.PricecheckRound{
				Category:    fact.Category,
				Item:        fact.Item,
				ShownValue:  b.shownValue(fact.ActualValue),
				ActualValue: fact.ActualValue,
				Unit:        fact.Unit,
			})
		}
		puzzles = append(puzzles, models.PricecheckPuzzle{ID: id, Rounds: rounds})
	}
	return puzzles, nil
}

// shownValue misstates actual by 5% to 80% in a random direction and never returns actual itself.
func (b *builder) shownValue(actual int64) int64 {
	margin := minMargin + b.rng.Float64()*marginRange
	direction := int64(-1)
	if b.rng.Float64() > 0.5 { //nolint:mnd // coin flip
		direction = 1
	}
	shown := int64(round(float64(actual) * (1 + float64(direction)*margin)))
	if shown == actual {
		shown += direction
	}
	return shown
}
