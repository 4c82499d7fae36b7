// Package scoring grades a player's guesses against a puzzle.
package scoring

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/synth"
)

var ErrInvalidGuess = errors.NewSentinel("invalid guess")

// Guesses accepted for the two-way games.
const (
	GuessHigher = "higher"
	GuessLower  = "lower"
	GuessA      = "A"
	GuessB      = "B"
)

// TiePolicy decides the winner of a versus round whose options have equal values.
type TiePolicy string

const (
	// TieGoesToA awards equal values to the option shown first.
	TieGoesToA TiePolicy = "a"
	// TieAcceptsEither counts both picks as correct.
	TieAcceptsEither TiePolicy = "either"
)

// Outcome is the graded day together with the verdict of every round or rank position.
type Outcome struct {
	Result  models.GameResult `json:"result"`
	Correct []bool            `json:"correct"`
}

type Scorer struct {
	Ties TiePolicy
}

func NewScorer() Scorer {
	return Scorer{Ties: TieGoesToA}
}

// Score grades guesses, one per round. For rank the guesses are the item names from first to last place.
//
// Malformed guesses are reported as [ErrInvalidGuess] rather than scored as wrong.
func (s Scorer) Score(puzzle models.Puzzle, guesses []string) (Outcome, error) {
	var (
		correct []bool
		err     error
	)
	switch p := puzzle.(type) {
	case models.PricecheckPuzzle:
		correct, err = gradeRounds(p.Rounds, guesses, gradePricecheck)
	case models.TrendPuzzle:
		correct, err = gradeRounds(p.Rounds, guesses, gradeTrend)
	case models.RankPuzzle:
		correct, err = gradeRank(p, guesses)
	case models.CrossfirePuzzle:
		correct, err = gradeRounds(p.Rounds, guesses, gradeCrossfire)
	case models.VersusPuzzle:
		correct, err = gradeRounds(p.Rounds, guesses, func(r models.VersusRound, guess string) (bool, error) {
			return s.gradeVersus(r, guess)
		})
	default:
		return Outcome{}, errors.Wrap(models.ErrUnknownGame, "score puzzle")
	}
	if err != nil {
		return Outcome{}, errors.Wrap(err, "score puzzle",
			slog.String("game", string(puzzle.Game())), slog.Int("puzzle", puzzle.PuzzleID()))
	}

	score := 0
	for _, ok := range correct {
		if ok {
			score++
		}
	}
	return Outcome{Result: models.NewGameResult(score), Correct: correct}, nil
}

func gradeRounds[R any](rounds []R, guesses []string, grade func(R, string) (bool, error)) ([]bool, error) {
	if len(guesses) != len(rounds) {
		return nil, errors.Wrap(ErrInvalidGuess, "guess count does not match rounds",
			slog.Int("guesses", len(guesses)), slog.Int("rounds", len(rounds)))
	}
	correct := make([]bool, len(rounds))
	for i, r := range rounds {
		ok, err := grade(r, guesses[i])
		if err != nil {
			return nil, errors.Wrap(err, "grade round", slog.Int("round", i+1))
		}
		correct[i] = ok
	}
	return correct, nil
}

// PricecheckAnswer is GuessHigher when the real value exceeds the shown one.
func PricecheckAnswer(r models.PricecheckRound) string {
	if r.ActualValue > r.ShownValue {
		return GuessHigher
	}
	return GuessLower
}

func gradePricecheck(r models.PricecheckRound, guess string) (bool, error) {
	guess = strings.ToLower(strings.TrimSpace(guess))
	if guess != GuessHigher && guess != GuessLower {
		return false, errors.Wrap(ErrInvalidGuess, "want higher or lower", slog.String("guess", guess))
	}
	return guess == PricecheckAnswer(r), nil
}

func gradeTrend(r models.TrendRound, guess string) (bool, error) {
	answer := models.TrendAnswer(strings.ToLower(strings.TrimSpace(guess)))
	if !answer.Valid() {
		return false, errors.Wrap(ErrInvalidGuess, "want up, down or flat", slog.String("guess", guess))
	}
	return answer == r.Answer, nil
}

func gradeCrossfire(r models.CrossfireRound, guess string) (bool, error) {
	normalized := strings.ToUpper(strings.TrimSpace(guess))
	if normalized == "" {
		return false, errors.Wrap(ErrInvalidGuess, "empty answer")
	}
	return slices.ContainsFunc(r.AcceptedAnswers, func(accepted string) bool {
		return strings.ToUpper(accepted) == normalized
	}), nil
}

// VersusWinner returns GuessA or GuessB. Equal values go to A.
func VersusWinner(r models.VersusRound) string {
	a, b := r.OptionA.Value, r.OptionB.Value
	if r.HigherWins {
		if a >= b {
			return GuessA
		}
		return GuessB
	}
	if a <= b {
		return GuessA
	}
	return GuessB
}

func (s Scorer) gradeVersus(r models.VersusRound, guess string) (bool, error) {
	guess = strings.ToUpper(strings.TrimSpace(guess))
	if guess != GuessA && guess != GuessB {
		return false, errors.Wrap(ErrInvalidGuess, "want A or B", slog.String("guess", guess))
	}
	if s.Ties == TieAcceptsEither && r.OptionA.Value == r.OptionB.Value {
		return true, nil
	}
	return guess == VersusWinner(r), nil
}

// gradeRank awards a point for every item placed where the descending order puts it.
func gradeRank(p models.RankPuzzle, guesses []string) ([]bool, error) {
	order := synth.SortRankItems(p.Items)
	if len(guesses) != len(order) {
		return nil, errors.Wrap(ErrInvalidGuess, "guess count does not match items",
			slog.Int("guesses", len(guesses)), slog.Int("items", len(order)))
	}
	remaining := make(map[string]int, len(order))
	for _, item := range order {
		remaining[item.Name]++
	}
	for _, g := range guesses {
		if remaining[g] == 0 {
			return nil, errors.Wrap(ErrInvalidGuess, "guess is not a permutation of the items", slog.String("item", g))
		}
		remaining[g]--
	}

	correct := make([]bool, len(order))
	for i, item := range order {
		correct[i] = guesses[i] == item.Name
	}
	return correct, nil
}
