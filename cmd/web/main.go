package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/jsech3/GameIQ/internal/ai"
	"github.com/jsech3/GameIQ/internal/bankfile"
	"github.com/jsech3/GameIQ/internal/broker"
	"github.com/jsech3/GameIQ/internal/daily"
	"github.com/jsech3/GameIQ/internal/envstruct"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/logging"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/pprofserver"
	"github.com/jsech3/GameIQ/internal/refresh"
	"github.com/jsech3/GameIQ/internal/repositories"
	"github.com/jsech3/GameIQ/internal/scoring"
	"github.com/jsech3/GameIQ/internal/sqlite"
	"github.com/joho/godotenv"
)

type application struct {
	logger     *slog.Logger
	banks      *bankCache
	clock      daily.Clock
	scorer     scoring.Scorer
	refresher  *refresh.Refresher
	progress   *broker.ChannelBroker[models.GameType, refresh.Progress]
	adminToken string
	timeout    time.Duration
}

type config struct {
	// Addr is the address the API listens on. Port 0 picks a free port.
	Addr          string        `env:"GAMEIQ_ADDR" envDefault:"localhost:4000"`
	BankDir       string        `env:"GAMEIQ_BANK_DIR" envDefault:"./puzzles"`
	PprofAddr     string        `env:"GAMEIQ_PPROF_ADDR" envDefault:"localhost:6060"`
	SQLiteURL     string        `env:"GAMEIQ_SQLITE_URL" envDefault:"./gameiq.sqlite"`
	Timeout       time.Duration `env:"GAMEIQ_TIMEOUT" envDefault:"5s"`
	VersusTies    string        `env:"GAMEIQ_VERSUS_TIES" envDefault:"a"`
	AdminToken    string        `env:"GAMEIQ_ADMIN_TOKEN" envDefault:""`
	OpenAIKey     string        `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL" envDefault:""`
	Model         string        `env:"GAMEIQ_MODEL" envDefault:""`
	RefreshBatch  int           `env:"GAMEIQ_REFRESH_BATCH" envDefault:"30"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}
	ties := scoring.TiePolicy(cfg.VersusTies)
	if ties != scoring.TieGoesToA && ties != scoring.TieAcceptsEither {
		return errors.New("GAMEIQ_VERSUS_TIES must be a or either", slog.String("value", cfg.VersusTies))
	}

	pprofserver.Launch(ctx, cfg.PprofAddr, logger)

	store := bankfile.NewStore(cfg.BankDir, logger)
	app := application{
		logger:     logger,
		banks:      newBankCache(store),
		clock:      daily.SystemClock{},
		scorer:     scoring.Scorer{Ties: ties},
		refresher:  nil,
		progress:   broker.NewChannelBroker[models.GameType, refresh.Progress](),
		adminToken: cfg.AdminToken,
		timeout:    cfg.Timeout,
	}
	go app.progress.Start()
	defer app.progress.Stop()

	if cfg.AdminToken != "" && cfg.OpenAIKey != "" {
		var runs refresh.RunRecorder
		var archive refresh.Archiver
		if cfg.SQLiteURL != "" {
			db, err := sqlite.NewDatabase(ctx, cfg.SQLiteURL, logger)
			if err != nil {
				return errors.Wrap(err, "open run ledger")
			}
			defer func() {
				if err = db.Close(); err != nil {
					logger.LogAttrs(ctx, slog.LevelError, "failed to close run ledger", errors.SlogError(err))
				}
			}()
			runs = repositories.NewRunRepository(db, logger)
			archive = repositories.NewArchiveRepository(db, logger)
		}
		client, err := ai.NewClient(ai.Config{APIKey: cfg.OpenAIKey, Model: cfg.Model, BaseURL: cfg.OpenAIBaseURL}, logger)
		if err != nil {
			return errors.Wrap(err, "create completion client")
		}
		app.refresher = refresh.New(store, client, runs, archive, cfg.RefreshBatch, logger)
	} else {
		logger.LogAttrs(ctx, slog.LevelInfo, "admin refresh disabled, set GAMEIQ_ADMIN_TOKEN and OPENAI_API_KEY")
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger(os.Stdout, logging.ParseLevel(os.Getenv("GAMEIQ_LOG_LEVEL")))
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		os.Exit(1)
	}
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
