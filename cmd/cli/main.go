package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsech3/GameIQ/cmd/cli/bank"
	"github.com/jsech3/GameIQ/cmd/cli/cliutil"
	"github.com/jsech3/GameIQ/cmd/cli/refresh"
	"github.com/jsech3/GameIQ/cmd/cli/runs"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cliutil.AddPersistentFlags(rootCmd)
	rootCmd.AddGroup(bank.Group)
	rootCmd.AddCommand(bank.Generate, bank.Validate, bank.Today)
	rootCmd.AddGroup(refresh.Group)
	rootCmd.AddCommand(refresh.Refresh)
	rootCmd.AddGroup(runs.Group)
	rootCmd.AddCommand(runs.List, runs.Degradations, runs.Retired)
}

var rootCmd = &cobra.Command{
	Use:           "gameiq-cli",
	Long:          `Command line utilities for building and maintaining the GameIQ puzzle banks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
