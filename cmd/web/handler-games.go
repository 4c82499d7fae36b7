package main

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jsech3/GameIQ/internal/daily"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
)

// listGames lists the games whose bank is present together with today's position in each bank.
func (app *application) listGames(w http.ResponseWriter, r *http.Request) {
	day := daily.DayNumber(app.clock.Now())
	summaries := make([]models.GameSummary, 0, len(models.GameTypes()))
	for _, game := range models.GameTypes() {
		bank, err := app.banks.get(r.Context(), game)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		index, err := daily.PuzzleIndex(day, bank.Len())
		if err != nil {
			// An empty bank serves nothing.
			continue
		}
		summaries = append(summaries, models.GameSummary{Game: game, Size: bank.Len(), Day: day, Index: index})
	}
	app.writeJSON(w, r, http.StatusOK, summaries)
}

func (app *application) today(w http.ResponseWriter, r *http.Request) {
	app.servePuzzle(w, r, daily.DayNumber(app.clock.Now()))
}

// day serves the puzzle of an arbitrary day number. Days before the epoch are allowed.
func (app *application) day(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		app.clientErrorMessage(w, r, http.StatusBadRequest, "day must be an integer")
		return
	}
	app.servePuzzle(w, r, day)
}

func (app *application) servePuzzle(w http.ResponseWriter, r *http.Request, day int) {
	puzzle, ok := app.lookupPuzzle(w, r, day)
	if !ok {
		return
	}
	app.writeJSON(w, r, http.StatusOK, puzzle)
}

// lookupPuzzle resolves the {game} path value and the puzzle of day. It writes the error response and returns
// false when there is none.
func (app *application) lookupPuzzle(w http.ResponseWriter, r *http.Request, day int) (models.DailyPuzzle, bool) {
	game, err := models.ParseGameType(r.PathValue("game"))
	if err != nil {
		app.notFound(w, r)
		return models.DailyPuzzle{}, false
	}
	bank, err := app.banks.get(r.Context(), game)
	if errors.Is(err, fs.ErrNotExist) {
		app.clientErrorMessage(w, r, http.StatusNotFound, "no bank for "+string(game))
		return models.DailyPuzzle{}, false
	}
	if err != nil {
		app.serverError(w, r, err)
		return models.DailyPuzzle{}, false
	}
	index, err := daily.PuzzleIndex(day, bank.Len())
	if errors.Is(err, daily.ErrEmptyBank) {
		app.clientErrorMessage(w, r, http.StatusNotFound, "bank for "+string(game)+" is empty")
		return models.DailyPuzzle{}, false
	}
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "select puzzle", slog.Int("day", day)))
		return models.DailyPuzzle{}, false
	}
	return models.DailyPuzzle{Game: game, Day: day, Index: index, Puzzle: bank.Puzzles[index]}, true
}
