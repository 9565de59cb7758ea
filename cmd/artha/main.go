package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/artha-erp/artha-erp/internal/app"
	"github.com/artha-erp/artha-erp/internal/billing"
	"github.com/artha-erp/artha-erp/internal/einvoice"
	"github.com/artha-erp/artha-erp/internal/ledger"
	"github.com/artha-erp/artha-erp/internal/observability"
	"github.com/artha-erp/artha-erp/internal/platform/cache"
	"github.com/artha-erp/artha-erp/internal/platform/db"
	"github.com/artha-erp/artha-erp/internal/render"
	"github.com/artha-erp/artha-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	seller := cfg.Seller()
	metrics := observability.NewMetrics()

	billingRepo := billing.NewRepository(dbpool)
	billingService := billing.NewService(billingRepo, seller, metrics, logger)
	billingHandler := billing.NewHandler(logger, billingService)

	ledgerRepo := ledger.NewRepository(dbpool)
	ledgerService := ledger.NewService(ledgerRepo, logger)
	ledgerHandler := ledger.NewHandler(ledgerService)

	portalClient := einvoice.NewClient(cfg.EInvBaseURL, cfg.EInvUsername, cfg.EInvPassword, cfg.EInvTimeout)
	tokenCache := einvoice.NewTokenCache(redisClient, cfg.EInvTokenTTL)
	einvoiceRepo := einvoice.NewRepository(dbpool)
	einvoiceService := einvoice.NewService(einvoiceRepo, portalClient, tokenCache, seller, metrics, logger)
	einvoiceHandler := einvoice.NewHandler(einvoiceService)

	var pdfRenderer render.PDFRenderer
	if cfg.GotenbergURL != "" {
		pdfRenderer = render.NewGotenbergClient(cfg.GotenbergURL)
	}
	renderHandler := render.NewHandler(billingService, seller, pdfRenderer)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		BillingHandler:  billingHandler,
		LedgerHandler:   ledgerHandler,
		EInvoiceHandler: einvoiceHandler,
		RenderHandler:   renderHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
