package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	api := alice.New(app.timeoutHandler)
	admin := alice.New(app.requireAdmin)

	mux.Handle("GET /api/healthy", api.ThenFunc(app.healthy))
	mux.Handle("GET /api/games", api.ThenFunc(app.listGames))
	mux.Handle("GET /api/games/{game}/today", api.ThenFunc(app.today))
	mux.Handle("GET /api/games/{game}/days/{day}", api.ThenFunc(app.day))
	mux.Handle("POST /api/games/{game}/score", api.ThenFunc(app.score))

	mux.Handle("POST /api/admin/refresh/{game}", admin.Append(app.timeoutHandler).ThenFunc(app.startRefresh))
	// The event stream outlives the handler timeout.
	mux.Handle("GET /api/admin/refresh/{game}/events", admin.ThenFunc(app.refreshEvents))

	mux.HandleFunc("/", app.notFound)

	return alice.New(app.recoverPanic, app.logRequest, secureHeaders).Then(mux)
}
