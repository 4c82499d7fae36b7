package models

import (
	"encoding/json"
	"log/slog"

	"github.com/jsech3/GameIQ/internal/errors"
)

// DailyPuzzle is the puzzle a bank serves on one day.
type DailyPuzzle struct {
	Game   GameType `json:"game"`
	Day    int      `json:"day"`
	Index  int      `json:"index"`
	Puzzle Puzzle   `json:"puzzle"`
}

func (d *DailyPuzzle) UnmarshalJSON(data []byte) error {
	var wire struct {
		Game   GameType        `json:"game"`
		Day    int             `json:"day"`
		Index  int             `json:"index"`
		Puzzle json.RawMessage `json:"puzzle"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "unmarshal daily puzzle")
	}
	puzzle, err := DecodePuzzle(wire.Game, wire.Puzzle)
	if err != nil {
		return err
	}
	*d = DailyPuzzle{Game: wire.Game, Day: wire.Day, Index: wire.Index, Puzzle: puzzle}
	return nil
}

// GameSummary describes a bank and the puzzle it serves today.
type GameSummary struct {
	Game  GameType `json:"game"`
	Size  int      `json:"size"`
	Day   int      `json:"day"`
	Index int      `json:"index"`
}

// ScoreRequest carries a player's guesses for the puzzle of Day.
type ScoreRequest struct {
	Day     int      `json:"day"`
	Guesses []string `json:"guesses"`
}

// ScoreResponse is the graded ScoreRequest.
type ScoreResponse struct {
	Game     GameType   `json:"game"`
	Day      int        `json:"day"`
	PuzzleID int        `json:"puzzleId"`
	Result   GameResult `json:"result"`
	Correct  []bool     `json:"correct"`
}

// DecodePuzzle parses a single puzzle of game.
func DecodePuzzle(game GameType, data []byte) (Puzzle, error) {
	switch game {
	case GamePricecheck:
		return decodePuzzle[PricecheckPuzzle](data)
	case GameTrend:
		return decodePuzzle[TrendPuzzle](data)
	case GameRank:
		return decodePuzzle[RankPuzzle](data)
	case GameCrossfire:
		return decodePuzzle[CrossfirePuzzle](data)
	case GameVersus:
		return decodePuzzle[VersusPuzzle](data)
	default:
		return nil, errors.Wrap(ErrUnknownGame, "decode puzzle", slog.String("game", string(game)))
	}
}

func decodePuzzle[P Puzzle](data []byte) (Puzzle, error) {
	var p P
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "unmarshal puzzle")
	}
	return p, nil
}
