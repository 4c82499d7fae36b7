package models

import (
	"log/slog"
	"strings"

	"github.com/jsech3/GameIQ/internal/errors"
)

// GameType identifies one of the daily mini-games. The name also picks the bank directory and the seed offset.
type GameType string

const (
	GamePricecheck GameType = "pricecheck"
	GameTrend      GameType = "trend"
	GameRank       GameType = "rank"
	GameCrossfire  GameType = "crossfire"
	GameVersus     GameType = "versus"
)

const (
	// BankSize is the length of every bank after synthesis or extension.
	BankSize = 365
	// RoundsPerPuzzle is both the round count of round-based games and the item count of rank puzzles.
	RoundsPerPuzzle = 5
	// MaxScore is the best possible result of a day.
	MaxScore = 5
	// CompletionThreshold is the score a player needs for the day to count as completed.
	CompletionThreshold = 3
)

var ErrUnknownGame = errors.NewSentinel("unknown game")

// GameTypes lists every game in generation order.
func GameTypes() []GameType {
	return []GameType{GamePricecheck, GameTrend, GameRank, GameCrossfire, GameVersus}
}

// ParseGameType returns the game named s. Matching is case-insensitive.
func ParseGameType(s string) (GameType, error) {
	normalized := GameType(strings.ToLower(strings.TrimSpace(s)))
	for _, g := range GameTypes() {
		if g == normalized {
			return g, nil
		}
	}
	return "", errors.Wrap(ErrUnknownGame, "parse game type", slog.String("game", s))
}

// SelectGames returns every game when name is empty and otherwise only the named one.
func SelectGames(name string) ([]GameType, error) {
	if name == "" {
		return GameTypes(), nil
	}
	game, err := ParseGameType(name)
	if err != nil {
		return nil, err
	}
	return []GameType{game}, nil
}

func (g GameType) String() string {
	return string(g)
}
