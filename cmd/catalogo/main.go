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

	"github.com/almoxarifado/catalogo/internal/app"
	"github.com/almoxarifado/catalogo/internal/catalog/remote"
	"github.com/almoxarifado/catalogo/internal/newitem"
	"github.com/almoxarifado/catalogo/internal/observability"
	"github.com/almoxarifado/catalogo/internal/platform/cache"
	"github.com/almoxarifado/catalogo/internal/search"
	"github.com/almoxarifado/catalogo/internal/shared"
	"github.com/almoxarifado/catalogo/internal/view"
	"github.com/almoxarifado/catalogo/jobs"
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

	sessionManager := shared.NewSessionManager(redisClient, "catalogo_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	catalogClient := remote.NewClient(cfg.CatalogAPIURL,
		remote.WithTimeout(cfg.CatalogAPITimeout),
		remote.WithQueryMode(cfg.QueryMode()),
		remote.WithRecorder(metrics),
	)
	searchCache := search.NewCache(redisClient, cfg.CatalogCacheTTL)
	searchService := search.NewService(catalogClient, searchCache, logger).WithRecorder(metrics)
	searchHandler := search.NewHandler(logger, searchService, templates, csrfManager)

	jobClient := jobs.NewClient(cache.QueueOpt(cfg.RedisAddr))
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	// Warm the search cache without waiting for the first cron tick.
	if _, err := jobClient.EnqueueWarmup(ctx, jobs.WarmupPayload{}); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Warn("enqueue startup warmup", slog.Any("error", err))
	}
	newItemService := newitem.NewService(catalogClient, searchService, jobClient, logger)
	newItemHandler := newitem.NewHandler(logger, newItemService, templates, csrfManager)

	inspector := asynq.NewInspector(cache.QueueOpt(cfg.RedisAddr))
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Templates:      templates,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		SearchHandler:  searchHandler,
		NewItemHandler: newItemHandler,
		JobHandler:     jobHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("catalog_api", cfg.CatalogAPIURL),
			slog.String("query_mode", string(catalogClient.Mode())),
		)
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
