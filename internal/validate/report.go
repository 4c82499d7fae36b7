// Package validate checks published bank files before they are committed or served.
//
// Every problem is collected into a [Report] so that a single run lists all of them.
package validate

import (
	"fmt"
	"io"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
)

// Entry is one line of a report.
type Entry struct {
	Game    models.GameType
	OK      bool
	Message string
}

func (e Entry) String() string {
	if e.OK {
		return fmt.Sprintf("  OK   [%s]: %s", e.Game, e.Message)
	}
	return fmt.Sprintf("  FAIL [%s]: %s", e.Game, e.Message)
}

// Report collects the outcome of validating one or more banks.
type Report struct {
	entries  []Entry
	failures int
}

func (r *Report) fail(game models.GameType, format string, args ...any) {
	r.entries = append(r.entries, Entry{Game: game, Message: fmt.Sprintf(format, args...)})
	r.failures++
}

func (r *Report) ok(game models.GameType, format string, args ...any) {
	r.entries = append(r.entries, Entry{Game: game, OK: true, Message: fmt.Sprintf(format, args...)})
}

// Failures returns the number of failed checks.
func (r *Report) Failures() int {
	return r.failures
}

// Passed reports whether no check failed.
func (r *Report) Passed() bool {
	return r.failures == 0
}

// Entries returns the lines in the order they were recorded.
func (r *Report) Entries() []Entry {
	return r.entries
}

// FailuresFor returns the failure messages recorded for game.
func (r *Report) FailuresFor(game models.GameType) []string {
	var msgs []string
	for _, e := range r.entries {
		if !e.OK && e.Game == game {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// Print writes the human-readable report.
func (r *Report) Print(w io.Writer) error {
	if _, err := fmt.Fprint(w, "Validating puzzle banks...\n\n"); err != nil {
		return errors.Wrap(err, "print report header")
	}
	for _, e := range r.entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return errors.Wrap(err, "print report entry")
		}
	}
	summary := "All validations passed!"
	if r.failures > 0 {
		summary = fmt.Sprintf("%d error(s) found.", r.failures)
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", summary); err != nil {
		return errors.Wrap(err, "print report summary")
	}
	return nil
}
