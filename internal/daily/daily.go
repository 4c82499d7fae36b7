// Package daily maps calendar days to positions in a rolling puzzle bank.
package daily

import (
	"log/slog"
	"time"

	"github.com/jsech3/GameIQ/internal/errors"
)

// Epoch is day zero. Every player sees the same puzzle on the same UTC calendar day.
var Epoch = time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // constant time value

var ErrEmptyBank = errors.NewSentinel("bank is empty")

const secondsPerDay = 24 * 60 * 60

// Clock abstracts the wall clock so that callers can inject dates.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// DayNumber returns the whole UTC calendar days elapsed since [Epoch]. Dates before the epoch are negative.
//
// The time of day and the location of t are ignored beyond determining the UTC date.
func DayNumber(t time.Time) int {
	utc := t.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	// Both operands are UTC midnights so the difference is an exact multiple of a day.
	// Unix seconds avoid the ±292 year range of time.Duration.
	return int((midnight.Unix() - Epoch.Unix()) / secondsPerDay)
}

// PuzzleIndex maps a day number to an index in [0, size) with a true modulo that stays non-negative.
func PuzzleIndex(day, size int) (int, error) {
	if size <= 0 {
		return 0, errors.Wrap(ErrEmptyBank, "puzzle index", slog.Int("size", size))
	}
	return ((day % size) + size) % size, nil
}

// Today returns the day number and bank index for the current day of clock.
func Today(clock Clock, size int) (int, int, error) {
	day := DayNumber(clock.Now())
	index, err := PuzzleIndex(day, size)
	if err != nil {
		return day, 0, err
	}
	return day, index, nil
}

// ParseDate parses a YYYY-MM-DD date as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse date", slog.String("date", s))
	}
	return t, nil
}
