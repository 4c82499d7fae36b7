// Package cliutil resolves the flags shared by all commands.
package cliutil

import (
	"log/slog"

	"github.com/jsech3/GameIQ/internal/bankfile"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/logging"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/sqlite"
	"github.com/spf13/cobra"
)

// Names of the persistent flags registered on the root command.
const (
	FlagDir       = "dir"
	FlagSQLiteURL = "sqlite-url"
	FlagLogLevel  = "log-level"
)

// AddPersistentFlags registers the shared flags on root.
func AddPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().String(FlagDir, "./puzzles", "directory that holds <game>/puzzles.json")
	root.PersistentFlags().String(FlagSQLiteURL, "./gameiq.sqlite", "run ledger database, empty to disable")
	root.PersistentFlags().String(FlagLogLevel, "info", "debug, info, warn or error")
}

// Logger writes to the command's error stream so that stdout carries only command output.
func Logger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString(FlagLogLevel)
	return logging.NewLogger(cmd.ErrOrStderr(), logging.ParseLevel(level))
}

func Store(cmd *cobra.Command, logger *slog.Logger) (*bankfile.Store, error) {
	dir, err := cmd.Flags().GetString(FlagDir)
	if err != nil {
		return nil, errors.Wrap(err, "read dir flag")
	}
	return bankfile.NewStore(dir, logger), nil
}

// Database opens the run ledger. It returns nil without error when the ledger is disabled.
func Database(cmd *cobra.Command, logger *slog.Logger) (*sqlite.Database, error) {
	url, err := cmd.Flags().GetString(FlagSQLiteURL)
	if err != nil {
		return nil, errors.Wrap(err, "read sqlite-url flag")
	}
	if url == "" {
		return nil, nil //nolint:nilnil // ledger disabled
	}
	db, err := sqlite.NewDatabase(cmd.Context(), url, logger)
	if err != nil {
		return nil, errors.Wrap(err, "open run ledger", slog.String("url", url))
	}
	return db, nil
}

// Games returns the game named by the optional first argument, or every game.
func Games(args []string) ([]models.GameType, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return models.SelectGames(name)
}

// CloseDatabase closes db if the ledger was enabled and logs failures.
func CloseDatabase(cmd *cobra.Command, db *sqlite.Database, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.LogAttrs(cmd.Context(), slog.LevelError, "failed to close run ledger", errors.SlogError(err))
	}
}
