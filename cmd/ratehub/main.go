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

	"github.com/ratehub/ratehub/internal/app"
	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/authz"
	"github.com/ratehub/ratehub/internal/observability"
	"github.com/ratehub/ratehub/internal/platform/cache"
	"github.com/ratehub/ratehub/internal/platform/db"
	"github.com/ratehub/ratehub/internal/ratings"
	"github.com/ratehub/ratehub/internal/stores"
	"github.com/ratehub/ratehub/internal/users"
	"github.com/ratehub/ratehub/jobs"
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

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	authn := auth.Middleware{Codec: codec, Logger: logger}
	authzMw := authz.Middleware{Logger: logger}

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, codec)
	authHandler := auth.NewHandler(logger, authService, authn)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, authn, authzMw)

	summaryCache := stores.NewSummaryCache(redisClient, cfg.SummaryCacheTTL)
	storesRepo := stores.NewRepository(pool)
	storesService := stores.NewService(storesRepo, summaryCache, logger)
	storesHandler := stores.NewHandler(logger, storesService, authn, authzMw)

	ratingsRepo := ratings.NewRepository(pool)
	ratingsService := ratings.NewService(ratingsRepo, storesService, jobsClient, logger)
	ratingsHandler := ratings.NewHandler(logger, ratingsService, authn)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Metrics:        observability.NewMetrics(),
		AuthHandler:    authHandler,
		UsersHandler:   usersHandler,
		StoresHandler:  storesHandler,
		RatingsHandler: ratingsHandler,
		JobsHandler:    jobsHandler,
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
