package main

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/currency/internal/api"
	"github.com/Harshitk-cp/currency/internal/buildconfig"
	"github.com/Harshitk-cp/currency/internal/config"
	"github.com/Harshitk-cp/currency/internal/definition"
	"github.com/Harshitk-cp/currency/internal/domain"
	"github.com/Harshitk-cp/currency/internal/service"
	"github.com/Harshitk-cp/currency/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()

	logger.Info("starting currency server", zap.String("build", buildconfig.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := definition.NewRegistry(logger)
	if dir := config.NetworksDir(); dir != "" {
		if err := registry.LoadDir(dir); err != nil {
			logger.Fatal("failed to load network definitions", zap.String("dir", dir), zap.Error(err))
		}
		go func() {
			if err := registry.Watch(ctx, dir); err != nil {
				logger.Error("network definition watcher stopped", zap.Error(err))
			}
		}()
	}

	var (
		pinger       api.Pinger
		observations domain.ObservationStore
		estimates    domain.EstimateStore
		expirer      *service.ExpirerService
	)
	if dbURL := config.DatabaseURL(); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")

		if err := store.Migrate(ctx, pool, config.MigrationsPath(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}

		pinger = pool
		observations = store.NewObservationStore(pool)
		estimateStore := store.NewEstimateStore(pool)
		estimates = estimateStore
		expirer = service.NewExpirerService(estimateStore, config.EstimateRetention(), logger)
	} else {
		logger.Info("DATABASE_URL not set, stored sources and persistence disabled")
	}

	svc := service.NewEstimateService(registry, observations, estimates, config.MaxTimeSteps(), logger)
	svc.SetMaxNodeSteps(config.MaxNodeSteps())
	app := api.NewApp(svc, pinger, api.Options{
		APIKey:         config.APIKey(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
	}, logger)

	if expirer != nil {
		expirer.Start()
	}

	// in-flight estimates are canceled once the shutdown grace period ends
	runCtx, cancelRuns := context.WithCancel(context.Background())
	defer cancelRuns()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return runCtx },
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	if expirer != nil {
		expirer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	context.AfterFunc(shutdownCtx, cancelRuns)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
