package refresh

import (
	"fmt"
	"os"
	"sync"

	"github.com/jsech3/GameIQ/cmd/cli/cliutil"
	"github.com/jsech3/GameIQ/internal/ai"
	"github.com/jsech3/GameIQ/internal/refresh"
	"github.com/jsech3/GameIQ/internal/repositories"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "refresh",
	Title: "Content refresh",
}

func init() {
	Refresh.Flags().Int("batch", refresh.DefaultBatchSize, "number of puzzles to request per game")
	Refresh.Flags().String("model", ai.DefaultModel, "chat completion model")
	Refresh.Flags().String("base-url", "", "override the completion API endpoint")
}

var Refresh = &cobra.Command{
	Use:     "refresh [game]",
	GroupID: "refresh",
	Short:   "Extend banks with model-authored puzzles",
	Long: `Requests a batch of new puzzles from the completion API, drops repeats of existing content,
appends the rest and keeps the newest 365 puzzles. Requires OPENAI_API_KEY.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := cliutil.Logger(cmd)
		games, err := cliutil.Games(args)
		if err != nil {
			return err
		}
		batch, _ := cmd.Flags().GetInt("batch")
		model, _ := cmd.Flags().GetString("model")
		baseURL, _ := cmd.Flags().GetString("base-url")

		client, err := ai.NewClient(ai.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   model,
			BaseURL: baseURL,
		}, logger)
		if err != nil {
			return err
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

		var refresher *refresh.Refresher
		if db != nil {
			refresher = refresh.New(store, client,
				repositories.NewRunRepository(db, logger),
				repositories.NewArchiveRepository(db, logger),
				batch, logger)
		} else {
			refresher = refresh.New(store, client, nil, nil, batch, logger)
		}

		progress := make(chan refresh.Progress)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range progress {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", p.Game, p.Message)
			}
		}()
		summaries, err := refresher.RefreshAll(ctx, games, progress)
		close(progress)
		wg.Wait()

		for _, s := range summaries {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %d received, %d duplicate, %d retired, bank has %d puzzles\n",
				s.Game, s.Received, s.Duplicate, s.Retired, s.Size)
		}
		return err
	},
}
