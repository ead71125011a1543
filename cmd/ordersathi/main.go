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
	"github.com/igtaposh/ordersathi-backend/internal/auth"
	"github.com/igtaposh/ordersathi-backend/internal/document"
	"github.com/igtaposh/ordersathi-backend/internal/observability"
	"github.com/igtaposh/ordersathi-backend/internal/orders"
	"github.com/igtaposh/ordersathi-backend/internal/platform/cache"
	"github.com/igtaposh/ordersathi-backend/internal/platform/db"
	"github.com/igtaposh/ordersathi-backend/internal/products"
	"github.com/igtaposh/ordersathi-backend/internal/shared"
	"github.com/igtaposh/ordersathi-backend/internal/stock"
	"github.com/igtaposh/ordersathi-backend/internal/suppliers"
	"github.com/igtaposh/ordersathi-backend/jobs"
	"github.com/igtaposh/ordersathi-backend/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
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

	metrics := observability.NewMetrics()
	idempotencyStore := shared.NewIdempotencyStore(dbpool)
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}

	jobClient := jobs.NewClient(redisOpts, cfg.WorkerQueue)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Error("init token issuer", slog.Any("error", err))
		os.Exit(1)
	}
	authService, err := auth.NewService(auth.ServiceConfig{
		Repo:       auth.NewRepository(dbpool),
		OTP:        auth.NewOTPStore(redisClient, cfg.OTPTTL),
		Tokens:     tokens,
		Dispatcher: jobClient,
		DevEcho:    cfg.OTPDevEcho,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("init auth service", slog.Any("error", err))
		os.Exit(1)
	}
	if !cfg.OTPDevEcho && !cfg.SMSConfigured() {
		logger.Warn("no sms gateway configured, the worker will log OTP messages instead of sending them")
	}

	supplierService := suppliers.NewService(suppliers.NewRepository(dbpool), logger)
	productService := products.NewService(products.NewRepository(dbpool), supplierService, logger)

	reportClient := report.NewClient(cfg.GotenbergURL, cfg.RenderTimeout)
	engine, err := report.NewEngine(reportClient, cfg.RenderConcurrency)
	if err != nil {
		logger.Error("init render engine", slog.Any("error", err))
		os.Exit(1)
	}
	renderer, err := document.NewRenderer(engine, document.Options{
		Timeout:  cfg.RenderTimeout,
		Footer:   cfg.DocumentFooter,
		Location: loc,
		Recorder: metrics,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("init document renderer", slog.Any("error", err))
		os.Exit(1)
	}

	orderService := orders.NewService(orders.ServiceDeps{
		Repo:        orders.NewRepository(dbpool),
		Products:    productService,
		Suppliers:   supplierService,
		Shops:       authService,
		Renderer:    renderer,
		Cache:       orders.NewStatsCache(redisClient, cfg.StatsCacheTTL),
		Idempotency: idempotencyStore,
		Logger:      logger,
		Now:         now,
	})
	stockService := stock.NewService(stock.ServiceDeps{
		Repo:        stock.NewRepository(dbpool),
		Products:    productService,
		Suppliers:   supplierService,
		Shops:       authService,
		Renderer:    renderer,
		Idempotency: idempotencyStore,
		Logger:      logger,
		Now:         now,
	})

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Metrics:         metrics,
		Authenticate:    auth.Middleware(tokens),
		AuthHandler:     auth.NewHandler(logger, authService, cfg.IsProduction()),
		SupplierHandler: suppliers.NewHandler(supplierService, logger),
		ProductHandler:  products.NewHandler(productService, logger),
		OrderHandler:    orders.NewHandler(orderService, logger),
		StockHandler:    stock.NewHandler(stockService, logger),
		ReportHandler:   report.NewHandler(reportClient, logger),
		JobHandler:      jobs.NewHandler(inspector, cfg.WorkerQueue, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
