package synth

import (
	"github.com/jsech3/GameIQ/internal/content"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/random"
)

func (b *builder) versus(comparisons []content.Comparison) ([]models.Puzzle, error) {
	if len(comparisons) < models.RoundsPerPuzzle {
		return nil, errors.New("too few comparisons")
	}

	puzzles := make([]models.Puzzle, 0, b.size)
	for id := 1; id <= b.size; id++ {
		if err := b.checkpoint(); err != nil {
			return nil, err
		}
		used := make(map[int]bool, models.RoundsPerPuzzle)
		shuffled := random.Shuffle(b.rng, comparisons)
		rounds := make([]models.VersusRound, 0, models.RoundsPerPuzzle)

		for r := range models.RoundsPerPuzzle {
			idx := r
			attempts := 0
			for used[idx] && attempts < b.policy.MaxAttempts {
				idx = random.Index(b.rng, len(shuffled))
				attempts++
			}
			comparison := shuffled[idx]
			if used[idx] {
				b.degrade(id, r, attempts, comparison.Metric)
			}
			used[idx] = true

			a, c := comparison.OptionA, comparison.OptionB
			if b.rng.Float64() > 0.5 { //nolint:mnd // coin flip
				a, c = c, a
			}
			rounds = append(rounds, models.VersusRound{
				Category:   comparison.Category,
				Metric:     comparison.Metric,
				OptionA:    a,
				OptionB:    c,
				HigherWins: comparison.WinDirection == models.HigherWins,
			})
		}
		puzzles = append(puzzles, models.VersusPuzzle{ID: id, Rounds: rounds})
	}
	return puzzles, nil
}
