package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/refresh"
)

// Stages the server adds after the refresh itself has finished.
const (
	stageDone   refresh.Stage = "done"
	stageFailed refresh.Stage = "failed"
)

const (
	refreshTimeout = 5 * time.Minute
	// subscriberWait bounds how long an event waits for a reader before it is dropped.
	subscriberWait = 10 * time.Second
)

type refreshStarted struct {
	Game   models.GameType `json:"game"`
	Events string          `json:"events"`
}

// startRefresh runs a refresh of {game} in the background. Progress is published for refreshEvents.
func (app *application) startRefresh(w http.ResponseWriter, r *http.Request) {
	game, err := models.ParseGameType(r.PathValue("game"))
	if err != nil {
		app.notFound(w, r)
		return
	}
	events := make(chan refresh.Progress)
	if !app.progress.TryPublish(game, events) {
		app.clientErrorMessage(w, r, http.StatusConflict, "a refresh of "+string(game)+" is already running")
		return
	}
	ctx := context.WithoutCancel(r.Context())
	go app.runRefresh(ctx, game, events)

	app.writeJSON(w, r, http.StatusAccepted, refreshStarted{
		Game:   game,
		Events: fmt.Sprintf("/api/admin/refresh/%s/events", game),
	})
}

func (app *application) runRefresh(ctx context.Context, game models.GameType, events chan refresh.Progress) {
	defer func() {
		if err := recover(); err != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "refresh panicked", slog.Any("panic", err))
		}
		close(events)
		app.progress.Unpublish(game)
	}()
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	// The refresh reports at most one event per stage, so it never waits on the forwarder.
	progress := make(chan refresh.Progress, 3) //nolint:mnd // requesting, received, written
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for p := range progress {
			forward(events, p)
		}
	}()

	summary, err := app.refresher.Refresh(ctx, game, progress)
	close(progress)
	<-forwarded
	app.banks.invalidate(game)

	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "refresh failed", slog.String("game", string(game)), errors.SlogError(err))
		forward(events, refresh.Progress{Game: game, Stage: stageFailed, Message: err.Error()})
		return
	}
	forward(events, refresh.Progress{
		Game:  game,
		Stage: stageDone,
		Message: fmt.Sprintf("%d received, %d duplicate, %d retired, bank has %d puzzles",
			summary.Received, summary.Duplicate, summary.Retired, summary.Size),
	})
}

// forward hands p to the stream reader or drops it if nobody reads in time.
func forward(events chan<- refresh.Progress, p refresh.Progress) {
	timer := time.NewTimer(subscriberWait)
	defer timer.Stop()
	select {
	case events <- p:
	case <-timer.C:
	}
}

// refreshEvents streams the progress of a running refresh as server-sent events. The first reader gets the
// stream. Later readers wait until the refresh is over and get an empty response.
func (app *application) refreshEvents(w http.ResponseWriter, r *http.Request) {
	game, err := models.ParseGameType(r.PathValue("game"))
	if err != nil {
		app.notFound(w, r)
		return
	}
	if !app.progress.Published(game) {
		app.clientErrorMessage(w, r, http.StatusNotFound, "no refresh of "+string(game)+" is running")
		return
	}

	var events chan refresh.Progress
	select {
	case events = <-app.progress.Subscribe(game):
	case <-r.Context().Done():
		return
	}
	if events == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	rc := http.NewResponseController(w)
	if err = rc.SetWriteDeadline(time.Time{}); err != nil {
		app.serverError(w, r, errors.Wrap(err, "clear write deadline"))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for {
		select {
		case <-r.Context().Done():
			return
		case p, ok := <-events:
			if !ok {
				return
			}
			data, marshalErr := json.Marshal(p)
			if marshalErr != nil {
				app.logger.LogAttrs(r.Context(), slog.LevelError, "marshal progress", errors.SlogError(marshalErr))
				return
			}
			if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", p.Stage, data); err != nil {
				return
			}
			if err = rc.Flush(); err != nil {
				return
			}
		}
	}
}
