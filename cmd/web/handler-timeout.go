package main

import (
	"net/http"
	"time"
)

const timeoutBody = `{"error":"Service Unavailable"}`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func (app *application) timeoutHandler(h http.Handler) http.Handler {
	// Respond a little before the server's write timeout so that the client still gets the error.
	httpHandlerTimeout := app.timeout - 500*time.Millisecond //nolint:mnd // 500ms
	if httpHandlerTimeout <= 0 {
		httpHandlerTimeout = app.timeout
	}
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
