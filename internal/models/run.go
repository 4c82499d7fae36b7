package models

import "time"

type RunKind string

const (
	RunKindGenerate RunKind = "generate"
	RunKindRefresh  RunKind = "refresh"
)

// Run is one invocation of the generator or the refresh job for one game.
type Run struct {
	ID           string    `db:"id"`
	Kind         RunKind   `db:"kind"`
	Game         GameType  `db:"game"`
	Seed         int64     `db:"seed"`
	PuzzleCount  int       `db:"puzzle_count"`
	Degradations int       `db:"degradation_count"`
	Started      time.Time `db:"started"`
	Finished     time.Time `db:"finished"`
}

// Degradation records a round where the retry cap ran out and a repeated category or word was accepted.
type Degradation struct {
	Game     GameType `db:"game"`
	PuzzleID int      `db:"puzzle_id"`
	Round    int      `db:"round"`
	Attempts int      `db:"attempts"`
	Key      string   `db:"key"`
}

// RetiredPuzzle is a puzzle that aged out of a bank during extension.
type RetiredPuzzle struct {
	RunID    string    `db:"run_id"`
	Game     GameType  `db:"game"`
	PuzzleID int       `db:"puzzle_id"`
	Retired  time.Time `db:"retired"`
	// Payload is the puzzle as it appeared in the bank file.
	Payload string `db:"payload"`
}
