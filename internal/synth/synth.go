// Package synth builds puzzle banks from the content catalog with a seeded generator.
//
// Every game draws from its own generator seeded with [SeedFor], so banks are reproducible and games can be
// synthesized in parallel without coordination.
package synth

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/jsech3/GameIQ/internal/content"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/logging"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/random"
	"golang.org/x/sync/errgroup"
)

// DefaultSeedBase is the master seed of the published banks.
const DefaultSeedBase int32 = 42

// SeedFor derives the per-game seed from the master seed.
func SeedFor(seedBase int32, game models.GameType) int32 {
	return seedBase + int32(len(game)) //nolint:gosec // game names are short
}

// Config controls bank size and the retry caps of the diversity loops.
type Config struct {
	BankSize int
	Retry    map[models.GameType]RetryPolicy
}

// DefaultConfig returns the configuration used for published banks.
func DefaultConfig() Config {
	return Config{
		BankSize: models.BankSize,
		Retry:    DefaultRetryPolicies(),
	}
}

// Result is a synthesized bank together with the rounds where uniqueness could not be achieved.
type Result struct {
	Bank         models.Bank
	Seed         int32
	Degradations []models.Degradation
}

type Synthesizer struct {
	catalog *content.Catalog
	config  Config
	logger  *slog.Logger
}

func New(catalog *content.Catalog, config Config, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		catalog: catalog,
		config:  config,
		logger:  logger.With("source", "synth"),
	}
}

// Synthesize builds the bank of one game from seedBase.
func (s *Synthesizer) Synthesize(ctx context.Context, game models.GameType, seedBase int32) (Result, error) {
	if s.config.BankSize <= 0 {
		return Result{}, errors.New("bank size must be positive", slog.Int("bankSize", s.config.BankSize))
	}
	seed := SeedFor(seedBase, game)
	ctx = logging.WithAttrs(ctx, slog.String("game", game.String()), slog.Int("seed", int(seed)))
	b := &builder{
		ctx:    ctx,
		game:   game,
		rng:    random.NewMulberry32(seed),
		policy: s.config.retryPolicy(game),
		size:   s.config.BankSize,
		logger: s.logger,
	}

	start := time.Now()
	var (
		puzzles []models.Puzzle
		err     error
	)
	switch game {
	case models.GamePricecheck:
		puzzles, err = b.pricecheck(s.catalog.Prices)
	case models.GameTrend:
		puzzles, err = b.trend(s.catalog.Trend)
	case models.GameRank:
		puzzles, err = b.rank(s.catalog.RankTemplates)
	case models.GameCrossfire:
		puzzles, err = b.crossfire(s.catalog.Words)
	case models.GameVersus:
		puzzles, err = b.versus(s.catalog.Comparisons)
	default:
		return Result{}, errors.Wrap(models.ErrUnknownGame, "synthesize", slog.String("game", string(game)))
	}
	if err != nil {
		return Result{}, errors.Wrap(err, "synthesize bank", slog.String("game", string(game)))
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "synthesized bank",
		slog.Int("puzzles", len(puzzles)),
		slog.Int("degradations", len(b.degradations)),
		slog.Duration("duration", time.Since(start)))

	return Result{
		Bank:         models.Bank{Game: game, Puzzles: puzzles},
		Seed:         seed,
		Degradations: b.degradations,
	}, nil
}

// SynthesizeAll builds the banks of games concurrently. Results are in the order of games.
func (s *Synthesizer) SynthesizeAll(ctx context.Context, games []models.GameType, seedBase int32) ([]Result, error) {
	results := make([]Result, len(games))
	g, gctx := errgroup.WithContext(ctx)
	for i, game := range games {
		g.Go(func() error {
			result, err := s.Synthesize(gctx, game, seedBase)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "synthesize all")
	}
	return results, nil
}

// builder carries the generator and the per-bank bookkeeping through one synthesis run.
type builder struct {
	ctx          context.Context //nolint:containedctx // scoped to a single synthesis run
	game         models.GameType
	rng          *random.Mulberry32
	policy       RetryPolicy
	size         int
	logger       *slog.Logger
	degradations []models.Degradation
}

// checkpoint stops long runs when the caller gives up.
func (b *builder) checkpoint() error {
	if err := b.ctx.Err(); err != nil {
		return errors.Wrap(err, "synthesis interrupted")
	}
	return nil
}

// round rounds half up like the reference generator, e.g., -2.5 becomes -2.
func round(x float64) float64 {
	return math.Floor(x + 0.5) //nolint:mnd // half
}
