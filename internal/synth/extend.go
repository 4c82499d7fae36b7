package synth

import (
	"log/slog"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
)

var ErrGameMismatch = errors.NewSentinel("puzzle belongs to another game")

// Extend appends fresh to bank, drops the oldest puzzles beyond size and renumbers ids to 1..N.
//
// The input bank is not modified. The dropped puzzles are returned with their ids from before the extension.
func Extend(bank models.Bank, fresh []models.Puzzle, size int) (models.Bank, []models.Puzzle, error) {
	if size <= 0 {
		return models.Bank{}, nil, errors.New("bank size must be positive", slog.Int("size", size))
	}
	for _, p := range fresh {
		if p.Game() != bank.Game {
			return models.Bank{}, nil, errors.Wrap(ErrGameMismatch, "extend bank",
				slog.String("bank", string(bank.Game)), slog.String("puzzle", string(p.Game())))
		}
	}

	combined := make([]models.Puzzle, 0, len(bank.Puzzles)+len(fresh))
	combined = append(combined, bank.Puzzles...)
	combined = append(combined, fresh...)

	var retired []models.Puzzle
	if excess := len(combined) - size; excess > 0 {
		retired = combined[:excess:excess]
		combined = combined[excess:]
	}

	kept := make([]models.Puzzle, len(combined))
	for i, p := range combined {
		kept[i] = p.WithID(i + 1)
	}
	return models.Bank{Game: bank.Game, Puzzles: kept}, retired, nil
}
