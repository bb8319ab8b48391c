// Command truthfinder runs the assistant's HTTP service: config, store,
// generation gateway, lookup client, orchestrator, server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/hamzaahmed987/truthfinder/truthfinder/config"
	"github.com/hamzaahmed987/truthfinder/truthfinder/generation"
	"github.com/hamzaahmed987/truthfinder/truthfinder/lookup"
	"github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator"
	ports "github.com/hamzaahmed987/truthfinder/truthfinder/orchestrator/ports"
	"github.com/hamzaahmed987/truthfinder/truthfinder/server"
	"github.com/hamzaahmed987/truthfinder/truthfinder/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: search ./config.yaml and /etc/truthfinder)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg.App)

	// Log level follows config file edits without a restart.
	viper.OnConfigChange(func(e fsnotify.Event) {
		level := viper.GetString("app.log_level")
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
			zerolog.SetGlobalLevel(parsed)
			logger.Info().Str("file", e.Name).Str("level", level).Msg("config reloaded")
		}
	})
	viper.WatchConfig()

	db, err := store.ConnectToDB(cfg.Store.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Store.DatabasePath).Msg("failed to open conversation store")
	}
	defer db.Close()

	factory := orchestrator.NewFactory(cfg, logger)

	generator := generation.NewGeminiGateway(
		cfg.Generation.BaseURL,
		cfg.Generation.APIKey,
		cfg.Generation.Model,
		cfg.Generation.Timeout,
		factory.CreateGenerationLimiter(),
		logger,
	)

	var searcher ports.PostSearcher = lookup.NewTwitterClient(
		cfg.Lookup.BaseURL,
		cfg.Lookup.BearerToken,
		cfg.Lookup.Timeout,
		logger,
	)
	if cfg.Lookup.CacheEnabled {
		searcher = lookup.NewCachedSearcher(searcher, factory.CreateLookupCache(), cfg.Lookup.CacheTTLSeconds, logger)
	}

	conversations := store.NewLibSQLStore(db, logger)
	orch := factory.CreateOrchestrator(generator, searcher, conversations)

	srv, err := server.New(orch, conversations, cfg.Server, cfg.Orchestrator.HistoryFetchLimit, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("shutdown complete")
}

func newLogger(cfg config.AppConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out = os.Stderr
	if cfg.LogJSON {
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
}
