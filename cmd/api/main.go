package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clearledger/reconciliation-backend/internal/api"
	"github.com/clearledger/reconciliation-backend/internal/application/service"
	"github.com/clearledger/reconciliation-backend/internal/infrastructure/config"
	"github.com/clearledger/reconciliation-backend/internal/infrastructure/logging"
	"github.com/clearledger/reconciliation-backend/internal/infrastructure/storage"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to config file")
		port       = flag.Int("port", 0, "Override the configured port")
		verbose    = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.LoadFromEnv()
	}

	loggingCfg := cfg.Observability.Logging
	if *verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	svc := service.NewReconcileService(store, cfg.Matching.ToScoringConfig(), logger)

	apiCfg := api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if *port != 0 {
		apiCfg.Port = *port
	}

	server := api.NewServer(apiCfg, svc, logger)

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
	}()

	if err := server.Start(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
