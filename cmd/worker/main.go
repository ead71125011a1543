package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/igtaposh/ordersathi-backend/internal/app"
	"github.com/igtaposh/ordersathi-backend/internal/observability"
	"github.com/igtaposh/ordersathi-backend/internal/platform/db"
	"github.com/igtaposh/ordersathi-backend/internal/shared"
	"github.com/igtaposh/ordersathi-backend/jobs"
)

const (
	idempotencyRetention = 72 * time.Hour
	metricsAddr          = ":9091"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var sender jobs.SMSSender = jobs.NewLogSender(logger)
	if cfg.SMSConfigured() {
		gateway, err := jobs.NewGatewaySender(jobs.GatewayConfig{
			BaseURL:    cfg.SMSGatewayURL,
			AccountSID: cfg.SMSAccountSID,
			AuthToken:  cfg.SMSAuthToken,
			From:       cfg.SMSFrom,
		})
		if err != nil {
			logger.Error("init sms gateway", slog.Any("error", err))
			os.Exit(1)
		}
		sender = gateway
	}

	metrics := observability.NewMetrics()
	processors := jobs.NewProcessors(jobs.ProcessorsConfig{
		Sender:   sender,
		Cleaner:  shared.NewIdempotencyStore(pool),
		OTPTTL:   cfg.OTPTTL,
		Recorder: metrics,
		Logger:   logger,
	})

	cleanupTask, err := jobs.NewIdempotencyCleanupTask(idempotencyRetention)
	if err != nil {
		logger.Error("build cleanup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Queue:     cfg.WorkerQueue,
		Logger:    logger,
		Handlers:  processors.Handlers(),
		Cron: []jobs.CronRegistration{
			{Spec: "30 3 * * *", Task: cleanupTask, Options: []asynq.Option{asynq.Queue(cfg.WorkerQueue), asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	metricsServer := &http.Server{Addr: metricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
