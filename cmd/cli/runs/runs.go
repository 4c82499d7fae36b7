package runs

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jsech3/GameIQ/cmd/cli/cliutil"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/repositories"
	"github.com/spf13/cobra"
)

var ErrLedgerDisabled = errors.NewSentinel("run ledger is disabled, set --sqlite-url")

var Group = &cobra.Group{
	ID:    "runs",
	Title: "Run ledger",
}

func init() {
	List.Flags().Int("limit", 20, "maximum number of runs to show")
	Degradations.Flags().String("run", "", "run id")
	_ = Degradations.MarkFlagRequired("run")
	Retired.Flags().String("game", "", "game whose archived puzzles to show")
	Retired.Flags().Int("limit", 20, "maximum number of puzzles to show")
	_ = Retired.MarkFlagRequired("game")
}

var List = &cobra.Command{
	Use:     "runs",
	GroupID: "runs",
	Short:   "List recent generate and refresh runs",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := cliutil.Logger(cmd)
		limit, _ := cmd.Flags().GetInt("limit")
		db, err := cliutil.Database(cmd, logger)
		if err != nil {
			return err
		}
		if db == nil {
			return ErrLedgerDisabled
		}
		defer cliutil.CloseDatabase(cmd, db, logger)

		runs, err := repositories.NewRunRepository(db, logger).List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tKIND\tGAME\tSEED\tPUZZLES\tDEGRADATIONS\tSTARTED\tDURATION")
		for _, run := range runs {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
				run.ID, run.Kind, run.Game, run.Seed, run.PuzzleCount, run.Degradations,
				run.Started.Format(time.RFC3339), run.Finished.Sub(run.Started).Round(time.Millisecond))
		}
		return errors.Wrap(w.Flush(), "flush table")
	},
}

var Degradations = &cobra.Command{
	Use:     "degradations",
	GroupID: "runs",
	Short:   "List the rounds of a run that reused a category or word",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := cliutil.Logger(cmd)
		runID, _ := cmd.Flags().GetString("run")
		db, err := cliutil.Database(cmd, logger)
		if err != nil {
			return err
		}
		if db == nil {
			return ErrLedgerDisabled
		}
		defer cliutil.CloseDatabase(cmd, db, logger)

		degradations, err := repositories.NewRunRepository(db, logger).Degradations(cmd.Context(), runID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "GAME\tPUZZLE\tROUND\tATTEMPTS\tKEY")
		for _, d := range degradations {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", d.Game, d.PuzzleID, d.Round, d.Attempts, d.Key)
		}
		return errors.Wrap(w.Flush(), "flush table")
	},
}

var Retired = &cobra.Command{
	Use:     "retired",
	GroupID: "runs",
	Short:   "List puzzles that a refresh rolled out of a bank",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := cliutil.Logger(cmd)
		name, _ := cmd.Flags().GetString("game")
		limit, _ := cmd.Flags().GetInt("limit")
		game, err := models.ParseGameType(name)
		if err != nil {
			return err
		}
		db, err := cliutil.Database(cmd, logger)
		if err != nil {
			return err
		}
		if db == nil {
			return ErrLedgerDisabled
		}
		defer cliutil.CloseDatabase(cmd, db, logger)

		retired, err := repositories.NewArchiveRepository(db, logger).List(cmd.Context(), game, limit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "PUZZLE\tRUN\tRETIRED\tPAYLOAD")
		for _, p := range retired {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.PuzzleID, p.RunID, p.Retired.Format(time.RFC3339), p.Payload)
		}
		return errors.Wrap(w.Flush(), "flush table")
	},
}
