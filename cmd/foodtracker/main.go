package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"foodtracker/internal/amqp"
	"foodtracker/internal/cli"
	apphttp "foodtracker/internal/http"
	"foodtracker/internal/log"
	"foodtracker/internal/services"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(slog.LevelInfo, "foodtracker")
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.SlogLevel(), "foodtracker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	// Left as a nil interface when events are off so the service skips publishing.
	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", log.FieldError, err)
			_ = repo.Close()
			os.Exit(1)
		}
		publisher = client
		logger.Info("Entry events enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("Entry events disabled, AMQP_URL not set")
	}

	svc := services.NewEntryService(repo, publisher)

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		ProteinGoal:        cfg.ProteinGoal,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, svc, repo, logger)
	if err != nil {
		logger.Error("Failed to build HTTP server", log.FieldError, err)
		_ = svc.Close()
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close entry service", log.FieldError, err)
		}
	})

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting food tracker",
			"port", cfg.Port,
			"protein_goal", cfg.ProteinGoal,
			"db", cfg.SQLiteDBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		_ = svc.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
