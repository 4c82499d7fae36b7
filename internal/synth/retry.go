package synth

import (
	"log/slog"

	"github.com/jsech3/GameIQ/internal/models"
)

// RetryPolicy caps how often a round resamples a category or word already used in the same puzzle.
//
// Once the cap is reached the collision is accepted and recorded as a degradation.
type RetryPolicy struct {
	MaxAttempts int
}

// DefaultRetryPolicies are the caps of the published banks. Rank has no per-round draw and needs none.
func DefaultRetryPolicies() map[models.GameType]RetryPolicy {
	return map[models.GameType]RetryPolicy{
		models.GamePricecheck: {MaxAttempts: 50},  //nolint:mnd // see doc
		models.GameTrend:      {MaxAttempts: 30},  //nolint:mnd // see doc
		models.GameCrossfire:  {MaxAttempts: 100}, //nolint:mnd // see doc
		models.GameVersus:     {MaxAttempts: 50},  //nolint:mnd // see doc
	}
}

func (c Config) retryPolicy(game models.GameType) RetryPolicy {
	if p, ok := c.Retry[game]; ok {
		return p
	}
	return DefaultRetryPolicies()[game]
}

// degrade records a round that kept a duplicate after exhausting the retry cap.
func (b *builder) degrade(puzzleID, round, attempts int, key string) {
	d := models.Degradation{
		Game:     b.game,
		PuzzleID: puzzleID,
		Round:    round,
		Attempts: attempts,
		Key:      key,
	}
	b.degradations = append(b.degradations, d)
	b.logger.LogAttrs(b.ctx, slog.LevelWarn, "accepted duplicate after retry cap",
		slog.Int("puzzle", puzzleID),
		slog.Int("round", round),
		slog.Int("attempts", attempts),
		slog.String("key", key))
}
