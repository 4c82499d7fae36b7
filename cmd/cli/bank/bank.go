// Package bank holds the commands that build, check and inspect the puzzle bank files.
package bank

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jsech3/GameIQ/cmd/cli/cliutil"
	"github.com/jsech3/GameIQ/internal/bankfile"
	"github.com/jsech3/GameIQ/internal/content"
	"github.com/jsech3/GameIQ/internal/daily"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/repositories"
	"github.com/jsech3/GameIQ/internal/synth"
	"github.com/jsech3/GameIQ/internal/validate"
	"github.com/spf13/cobra"
)

var ErrValidationFailed = errors.NewSentinel("bank validation failed")

var Group = &cobra.Group{
	ID:    "bank",
	Title: "Puzzle banks",
}

func init() {
	Generate.Flags().Int32("seed", synth.DefaultSeedBase, "master seed, each game adds the length of its name")
	Today.Flags().String("date", "", "UTC date as YYYY-MM-DD instead of today")
}

var Generate = &cobra.Command{
	Use:     "generate [game]",
	GroupID: "bank",
	Short:   "Synthesize puzzle banks",
	Long:    `Synthesizes a full bank for the given game, or for every game, from the embedded content tables.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := cliutil.Logger(cmd)
		games, err := cliutil.Games(args)
		if err != nil {
			return err
		}
		seedBase, err := cmd.Flags().GetInt32("seed")
		if err != nil {
			return errors.Wrap(err, "read seed flag")
		}
		store, err := cliutil.Store(cmd, logger)
		if err != nil {
			return err
		}
		db, err := cliutil.Database(cmd, logger)
		if err != nil {
			return err
		}
		defer cliutil.CloseDatabase(cmd, db, logger)

		catalog, err := content.Load(ctx, logger)
		if err != nil {
			return err
		}
		started := time.Now().UTC()
		results, err := synth.New(catalog, synth.DefaultConfig(), logger).SynthesizeAll(ctx, games, seedBase)
		if err != nil {
			return err
		}

		var runs *repositories.RunRepository
		if db != nil {
			runs = repositories.NewRunRepository(db, logger)
		}
		for _, result := range results {
			if err = store.Write(ctx, result.Bank); err != nil {
				return err
			}
			if runs != nil {
				run := models.Run{
					ID:          uuid.NewString(),
					Kind:        models.RunKindGenerate,
					Game:        result.Bank.Game,
					Seed:        int64(result.Seed),
					PuzzleCount: result.Bank.Len(),
					Started:     started,
					Finished:    time.Now().UTC(),
				}
				if err = runs.Record(ctx, run, result.Degradations); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] wrote %d puzzles to %s (seed %d, %d degradations)\n",
				result.Bank.Game, result.Bank.Len(), bankfile.Path(store.Dir(), result.Bank.Game),
				result.Seed, len(result.Degradations))
		}
		return nil
	},
}

var Validate = &cobra.Command{
	Use:     "validate [game]",
	GroupID: "bank",
	Short:   "Validate puzzle banks",
	Long:    `Checks the bank files for structural problems and exits non-zero when any check fails.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cliutil.Logger(cmd)
		games, err := cliutil.Games(args)
		if err != nil {
			return err
		}
		store, err := cliutil.Store(cmd, logger)
		if err != nil {
			return err
		}
		report := validate.Banks(cmd.Context(), store, games, logger)
		if err = report.Print(cmd.OutOrStdout()); err != nil {
			return err
		}
		if !report.Passed() {
			return errors.Wrap(ErrValidationFailed, "validate", slog.Int("failures", report.Failures()))
		}
		return nil
	},
}

var Today = &cobra.Command{
	Use:     "today [game]",
	GroupID: "bank",
	Short:   "Show the puzzle of the day",
	Long:    `Prints the day number, the bank index and the puzzle served on the given UTC date.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := cliutil.Logger(cmd)
		games, err := cliutil.Games(args)
		if err != nil {
			return err
		}
		var clock daily.Clock = daily.SystemClock{}
		if date, _ := cmd.Flags().GetString("date"); date != "" {
			t, parseErr := daily.ParseDate(date)
			if parseErr != nil {
				return parseErr
			}
			clock = daily.FixedClock(t)
		}
		store, err := cliutil.Store(cmd, logger)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		for _, game := range games {
			bank, readErr := store.Read(ctx, game)
			if readErr != nil {
				return readErr
			}
			day, index, todayErr := daily.Today(clock, bank.Len())
			if todayErr != nil {
				return errors.Wrap(todayErr, "select puzzle", slog.String("game", string(game)))
			}
			if err = enc.Encode(models.DailyPuzzle{Game: game, Day: day, Index: index, Puzzle: bank.Puzzles[index]}); err != nil {
				return errors.Wrap(err, "print puzzle")
			}
		}
		return nil
	},
}
