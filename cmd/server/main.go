package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/config"
	"github.com/hongminglow/taskdesk/internal/logging"
	"github.com/hongminglow/taskdesk/internal/seed"
	"github.com/hongminglow/taskdesk/internal/server"
	"github.com/hongminglow/taskdesk/internal/storage"
	"github.com/hongminglow/taskdesk/internal/storage/memory"
	"github.com/hongminglow/taskdesk/internal/storage/mongo"
	"github.com/hongminglow/taskdesk/internal/storage/postgres"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "taskdesk: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath string
		envFile    string
		loadSeed   bool
	)
	flagSet := pflag.NewFlagSet("taskdesk", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file (env vars override it)")
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flagSet.BoolVar(&loadSeed, "seed", false, "insert demo users, records, and tasks before serving")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	loadLocalEnv(envFile)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init %s store: %w", cfg.StoreDriver, err)
	}
	defer store.Close()

	if loadSeed {
		if err := seed.Load(ctx, store, auth.NewPasswordHasher(cfg.BcryptCost), logger); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	srv := server.New(cfg, store, logger)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("taskdesk listening", "addr", cfg.HTTPAddress(), "store", cfg.StoreDriver)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", "error", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	case config.DriverMongo:
		return mongo.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func loadLocalEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		slog.Info("no .env file found; relying on existing environment", "path", path)
	}
}
