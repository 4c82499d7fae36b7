package main

import "net/http"

type healthResponse struct {
	Status  string `json:"status"`
	Refresh bool   `json:"refresh"`
}

// healthy responds with a JSON object indicating that the server is healthy and whether admin refresh is enabled.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok", Refresh: app.refresher != nil})
}
