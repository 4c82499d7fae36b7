package synth

import (
	"github.com/jsech3/GameIQ/internal/content"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/random"
)

// wordStride spaces out retries so they land away from the neighbouring words of the round-robin walk.
const wordStride = 7

func (b *builder) crossfire(words []content.Word) ([]models.Puzzle, error) {
	if len(words) == 0 {
		return nil, errors.New("no crossfire words")
	}
	shuffled := random.Shuffle(b.rng, words)

	puzzles := make([]models.Puzzle, 0, b.size)
	for id := 1; id <= b.size; id++ {
		if err := b.checkpoint(); err != nil {
			return nil, err
		}
		used := make(map[string]bool, models.RoundsPerPuzzle)
		rounds := make([]models.CrossfireRound, 0, models.RoundsPerPuzzle)

		for r := range models.RoundsPerPuzzle {
			var word content.Word
			attempts := 0
			for {
				word = shuffled[(id*models.RoundsPerPuzzle+r+attempts*wordStride)%len(shuffled)]
				attempts++
				if !used[word.Answer] || attempts >= b.policy.MaxAttempts {
					break
				}
			}
			if used[word.Answer] {
				b.degrade(id, r, attempts, word.Answer)
			}
			used[word.Answer] = true

			rounds = append(rounds, models.CrossfireRound{
				Clue1:           word.Clue1,
				Clue2:           word.Clue2,
				Answer:          word.Answer,
				AcceptedAnswers: []string{word.Answer},
			})
		}
		puzzles = append(puzzles, models.CrossfirePuzzle{ID: id, Rounds: rounds})
	}
	return puzzles, nil
}
