package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/artha-erp/artha-erp/internal/app"
	"github.com/artha-erp/artha-erp/internal/einvoice"
	jobmetrics "github.com/artha-erp/artha-erp/internal/jobs"
	"github.com/artha-erp/artha-erp/internal/ledger"
	"github.com/artha-erp/artha-erp/internal/platform/cache"
	"github.com/artha-erp/artha-erp/internal/platform/db"
	"github.com/artha-erp/artha-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)

	ledgerRepo := ledger.NewRepository(pool)
	ledgerService := ledger.NewService(ledgerRepo, logger)

	portalClient := einvoice.NewClient(cfg.EInvBaseURL, cfg.EInvUsername, cfg.EInvPassword, cfg.EInvTimeout)
	tokenCache := einvoice.NewTokenCache(redisClient, cfg.EInvTokenTTL)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskOverdueSweep, Handler: jobs.NewOverdueSweepHandler(ledgerService, metrics, logger)},
			{Type: jobs.TaskTokenWarmup, Handler: jobs.NewTokenWarmupHandler(tokenCache, portalClient.Authenticate, metrics, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.OverdueSweepCron, Task: jobs.NewOverdueSweepTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
