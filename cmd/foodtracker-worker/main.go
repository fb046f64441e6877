package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"foodtracker/internal/amqp"
	"foodtracker/internal/backend"
	"foodtracker/internal/cache"
	"foodtracker/internal/cli"
	"foodtracker/internal/log"
	"foodtracker/internal/services"
	"foodtracker/internal/worker"

	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout      = 30 * time.Second
	cacheCleanupInterval = 10 * time.Minute
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(slog.LevelInfo, log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.SlogLevel(), log.ComponentWorker)

	logger.Info("Starting foodtracker-worker", "mirror", cfg.MirrorBackend)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	mirrorCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid mirror configuration", log.FieldError, err)
		_ = repo.Close()
		os.Exit(1)
	}
	mirror, err := backend.NewFactory(logger.Logger).CreateMirror(context.Background(), mirrorCfg)
	if err != nil {
		logger.Error("Failed to initialize mirror", log.FieldError, err, "mirror", mirrorCfg.Type)
		_ = repo.Close()
		os.Exit(1)
	}

	seen := cache.NewLRUCache[struct{}](worker.DefaultSeenSize, worker.DefaultSeenTTL)
	caches := cache.NewManager()
	caches.Register(seen)
	caches.StartCleanup(cacheCleanupInterval)

	mirrorWorker := worker.NewMirrorWorker(repo, mirror.Mirror, seen)
	processor := services.NewSyncProcessor(mirrorWorker, services.SyncProcessorConfig{
		PollInterval: cfg.SyncInterval,
	})

	var events *amqp.Client
	if cfg.EventsEnabled() {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", log.FieldError, err)
			os.Exit(1)
		}
	} else {
		logger.Info("AMQP disabled, relying on periodic resync only", "interval", cfg.SyncInterval)
	}

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := processor.Stop(ctx); err != nil {
			logger.Warn("Sync processor did not stop cleanly", log.FieldError, err)
		}
		caches.Stop()
		if events != nil {
			if err := events.Close(); err != nil {
				logger.Error("Failed to close AMQP client", log.FieldError, err)
			}
		}
		if mirror.Cleanup != nil {
			if err := mirror.Cleanup(); err != nil {
				logger.Error("Mirror cleanup failed", log.FieldError, err)
			}
		}
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close SQLite repository", log.FieldError, err)
		}
	})

	// A failed first sync is retried by the periodic resync.
	if err := mirrorWorker.StartupSync(ctx); err != nil {
		logger.Error("Startup sync failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return processor.Start(gctx)
	})
	if events != nil {
		g.Go(func() error {
			err := events.ConsumeEntryEvents(gctx, mirrorWorker.HandleEntryEvent)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
