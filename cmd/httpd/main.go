package main

import (
	"context"
	"os"

	"github.com/jobshield/jobshield/internal/api"
	"github.com/jobshield/jobshield/internal/bootstrap"
	"github.com/jobshield/jobshield/internal/config"
	"github.com/jobshield/jobshield/internal/logging"
)

func main() {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		logging.Must(logging.Config{}).Fatal("failed to load configuration", logging.Error(err))
	}

	logger := logging.Must(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	defer func() { _ = logger.Sync() }()

	logger.Info("starting jobshield",
		logging.String("version", cfg.Service.Version),
		logging.Int("port", cfg.Service.Port),
		logging.Bool("debug", cfg.Service.Debug))

	components, err := bootstrap.NewComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to build analysis stack", logging.Error(err))
	}
	defer func() { _ = components.Close() }()

	handler := api.NewHandler(
		components.Engine,
		components.Classifier,
		components.Scanner,
		components.Emails,
		components.ListsRepo,
		components.History,
		logger,
	)
	server := api.NewServer(cfg, handler, components.Telemetry.Handler(), logger)

	if err := server.RunWithGracefulShutdown(context.Background()); err != nil {
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	}
}
