package main

import (
	"encoding/json"
	"net/http"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/scoring"
)

const maxScoreBody = 16 << 10

// score grades the guesses of a day. The puzzle is looked up by day so that clients never send answers.
func (app *application) score(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScoreBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		app.clientErrorMessage(w, r, http.StatusBadRequest, "body must be {\"day\": int, \"guesses\": [string]}")
		return
	}

	puzzle, ok := app.lookupPuzzle(w, r, req.Day)
	if !ok {
		return
	}
	outcome, err := app.scorer.Score(puzzle.Puzzle, req.Guesses)
	if errors.Is(err, scoring.ErrInvalidGuess) {
		app.clientErrorMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, models.ScoreResponse{
		Game:     puzzle.Game,
		Day:      puzzle.Day,
		PuzzleID: puzzle.Puzzle.PuzzleID(),
		Result:   outcome.Result,
		Correct:  outcome.Correct,
	})
}
