// Package refresh extends puzzle banks with batches authored by a language model.
package refresh

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"
	"github.com/jsech3/GameIQ/internal/bankfile"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/logging"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/synth"
	"github.com/jsech3/GameIQ/internal/validate"
)

const DefaultBatchSize = 30

// falsePositiveRate of the seen-key filter. A false positive only drops a fresh puzzle.
const falsePositiveRate = 0.001

var (
	ErrNoPuzzles    = errors.NewSentinel("no usable puzzles in completion")
	ErrInvalidBatch = errors.NewSentinel("refreshed bank failed validation")
)

// Completer turns a prompt into model output.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RunRecorder stores the ledger entry of a finished refresh.
type RunRecorder interface {
	Record(ctx context.Context, run models.Run, degradations []models.Degradation) error
}

// Archiver keeps puzzles that aged out of a bank.
type Archiver interface {
	Archive(ctx context.Context, runID string, game models.GameType, puzzles []models.Puzzle) error
}

// Stage names the step a refresh reached.
type Stage string

const (
	StageRequesting Stage = "requesting"
	StageReceived   Stage = "received"
	StageWritten    Stage = "written"
)

// Progress is reported while a game is refreshed.
type Progress struct {
	Game    models.GameType `json:"game"`
	Stage   Stage           `json:"stage"`
	Message string          `json:"message"`
}

// Summary describes a completed refresh of one game.
type Summary struct {
	RunID     string          `json:"runId"`
	Game      models.GameType `json:"game"`
	Received  int             `json:"received"`
	Duplicate int             `json:"duplicate"`
	Retired   int             `json:"retired"`
	Size      int             `json:"size"`
}

type Refresher struct {
	store     *bankfile.Store
	completer Completer
	runs      RunRecorder
	archive   Archiver
	batchSize int
	logger    *slog.Logger
}

// New creates a Refresher. runs and archive may be nil to skip the ledger.
func New(
	store *bankfile.Store,
	completer Completer,
	runs RunRecorder,
	archive Archiver,
	batchSize int,
	logger *slog.Logger,
) *Refresher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Refresher{
		store:     store,
		completer: completer,
		runs:      runs,
		archive:   archive,
		batchSize: batchSize,
		logger:    logger.With("source", "refresh"),
	}
}

// RefreshAll refreshes games in order and stops at the first failure. Banks refreshed before the failure are kept.
func (r *Refresher) RefreshAll(
	ctx context.Context,
	games []models.GameType,
	progress chan<- Progress,
) ([]Summary, error) {
	summaries := make([]Summary, 0, len(games))
	for _, game := range games {
		summary, err := r.Refresh(ctx, game, progress)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Refresh requests a batch for game, appends the novel puzzles and writes the bank trimmed to [models.BankSize].
//
// The bank file is only replaced when the combined bank passes validation. progress may be nil.
func (r *Refresher) Refresh(ctx context.Context, game models.GameType, progress chan<- Progress) (Summary, error) {
	started := time.Now().UTC()
	ctx = logging.WithAttrs(ctx, slog.String("game", string(game)))

	bank, err := r.store.Read(ctx, game)
	if err != nil {
		return Summary{}, errors.Wrap(err, "read bank")
	}
	keys := Keys(bank.Puzzles)
	prompt, err := Prompt(game, bank.Len()+1, r.batchSize, keys)
	if err != nil {
		return Summary{}, err
	}

	report(ctx, progress, Progress{Game: game, Stage: StageRequesting, Message: "requesting new puzzles"})
	r.logger.LogAttrs(ctx, slog.LevelInfo, "requesting puzzles",
		slog.Int("current", bank.Len()), slog.Int("batch", r.batchSize))
	text, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		return Summary{}, errors.Wrap(err, "request puzzles")
	}
	received, err := bankfile.DecodePuzzles(game, []byte(ExtractJSON(text)))
	if err != nil {
		return Summary{}, errors.Wrap(err, "decode completion")
	}
	fresh := novel(keys, received)
	if len(fresh) == 0 {
		return Summary{}, errors.Wrap(ErrNoPuzzles, "refresh", slog.Int("received", len(received)))
	}
	report(ctx, progress, Progress{Game: game, Stage: StageReceived, Message: "received puzzles"})

	extended, retired, err := synth.Extend(bank, fresh, models.BankSize)
	if err != nil {
		return Summary{}, err
	}
	check, err := validate.Encoded(extended)
	if err != nil {
		return Summary{}, err
	}
	if !check.Passed() {
		return Summary{}, errors.Wrap(ErrInvalidBatch, strings.Join(check.FailuresFor(game), "; "),
			slog.Int("failures", check.Failures()))
	}
	if err = r.store.Write(ctx, extended); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		RunID:     uuid.NewString(),
		Game:      game,
		Received:  len(received),
		Duplicate: len(received) - len(fresh),
		Retired:   len(retired),
		Size:      extended.Len(),
	}
	if err = r.record(ctx, summary, started, retired); err != nil {
		return Summary{}, err
	}
	report(ctx, progress, Progress{Game: game, Stage: StageWritten, Message: "bank written"})
	r.logger.LogAttrs(ctx, slog.LevelInfo, "refreshed bank",
		slog.String("runID", summary.RunID),
		slog.Int("received", summary.Received),
		slog.Int("duplicate", summary.Duplicate),
		slog.Int("retired", summary.Retired),
		slog.Int("size", summary.Size))
	return summary, nil
}

func (r *Refresher) record(ctx context.Context, summary Summary, started time.Time, retired []models.Puzzle) error {
	if r.runs == nil {
		return nil
	}
	run := models.Run{
		ID:          summary.RunID,
		Kind:        models.RunKindRefresh,
		Game:        summary.Game,
		PuzzleCount: summary.Size,
		Started:     started,
		Finished:    time.Now().UTC(),
	}
	if err := r.runs.Record(ctx, run, nil); err != nil {
		return errors.Wrap(err, "record refresh run")
	}
	if r.archive == nil || len(retired) == 0 {
		return nil
	}
	if err := r.archive.Archive(ctx, summary.RunID, summary.Game, retired); err != nil {
		return errors.Wrap(err, "archive retired puzzles")
	}
	return nil
}

// novel drops received puzzles that repeat a key of the bank or of an earlier puzzle in the batch.
func novel(existing []string, received []models.Puzzle) []models.Puzzle {
	n := uint(len(existing) + len(received)*models.RoundsPerPuzzle + 1) //nolint:gosec // lengths are non-negative
	seen := bloom.NewWithEstimates(n, falsePositiveRate)
	for _, k := range existing {
		seen.AddString(normalizeKey(k))
	}

	var fresh []models.Puzzle
	for _, p := range received {
		keys := PuzzleKeys(p)
		duplicate := false
		for _, k := range keys {
			if seen.TestString(normalizeKey(k)) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		for _, k := range keys {
			seen.AddString(normalizeKey(k))
		}
		fresh = append(fresh, p)
	}
	return fresh
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.Join(strings.Fields(k), " "))
}

// report forwards p unless the caller gave up on the refresh.
func report(ctx context.Context, progress chan<- Progress, p Progress) {
	if progress == nil {
		return
	}
	select {
	case progress <- p:
	case <-ctx.Done():
	}
}
