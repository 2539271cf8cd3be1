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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/modern-studios/accounts/internal/app"
	"github.com/modern-studios/accounts/internal/auth"
	"github.com/modern-studios/accounts/internal/directory"
	"github.com/modern-studios/accounts/internal/observability"
	"github.com/modern-studios/accounts/internal/platform/cache"
	"github.com/modern-studios/accounts/internal/platform/db"
	"github.com/modern-studios/accounts/internal/seed"
	"github.com/modern-studios/accounts/internal/token"
	"github.com/modern-studios/accounts/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
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

	mailClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init mail client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := mailClient.Close(); err != nil {
			logger.Warn("mail client close", slog.Any("error", err))
		}
	}()

	revocations := token.NewRevocationSet(redisClient)
	tokenService := token.NewService(cfg.JWTSecret, cfg.TokenTTL, revocations)

	metrics := observability.NewMetrics()
	registrations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "accounts_registrations_total",
		Help: "Number of successfully registered accounts.",
	})
	metrics.Registerer().MustRegister(registrations)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(logger, authRepo, auth.NewHasher(), tokenService)
	authService.SetRegistrationCounter(registrations)
	authHandler := auth.NewHandler(logger, authService, tokenService, mailClient)

	directoryRepo := directory.NewRepository(pool)
	directoryService := directory.NewService(logger, directoryRepo)
	directoryHandler := directory.NewHandler(logger, directoryService)

	if cfg.SeedEnabled {
		seed.Run(ctx, logger, authService)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		DirectoryHandler: directoryHandler,
		TokenValidator:   tokenService,
		Metrics:          metrics,
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
