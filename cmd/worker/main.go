package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/almoxarifado/catalogo/cmd/worker/cli"
	"github.com/almoxarifado/catalogo/internal/app"
	"github.com/almoxarifado/catalogo/internal/catalog/remote"
	"github.com/almoxarifado/catalogo/internal/platform/cache"
	"github.com/almoxarifado/catalogo/internal/search"
	"github.com/almoxarifado/catalogo/jobs"
)

const usage = `usage: worker [run | trigger <job> [args...] | stats]`

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

	cmd := "run"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "run":
		err = run(ctx, cfg, logger)
	case "trigger", "stats":
		err = manage(ctx, cfg, cmd, os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker", slog.String("command", cmd), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalogClient := remote.NewClient(cfg.CatalogAPIURL,
		remote.WithTimeout(cfg.CatalogAPITimeout),
		remote.WithQueryMode(cfg.QueryMode()),
	)
	searchService := search.NewService(catalogClient, search.NewCache(redisClient, cfg.CatalogCacheTTL), logger)

	warmupJob := jobs.NewCatalogWarmupJob(searchService, logger, nil)
	itemCreatedJob := jobs.NewItemCreatedJob(searchService, logger, nil)

	warmupTask, err := jobs.NewWarmupTask(jobs.WarmupPayload{})
	if err != nil {
		return fmt.Errorf("build warmup task: %w", err)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   cache.QueueOpt(cfg.RedisAddr),
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCatalogWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskItemCreated, Handler: itemCreatedJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Schedule: "*/5 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(1), asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		return fmt.Errorf("init worker: %w", err)
	}
	metricsServer := serveMetrics(cfg.WorkerMetricsAddr, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr), slog.Int("concurrency", cfg.WorkerConcurrency))
	return worker.Run(ctx)
}

// serveMetrics exposes the job collectors registered on the default registry.
func serveMetrics(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker metrics server", slog.Any("error", err))
		}
	}()
	return server
}

func manage(ctx context.Context, cfg *app.Config, cmd string, args []string) error {
	jobsCLI := cli.NewJobsCLI(cache.QueueOpt(cfg.RedisAddr))
	defer jobsCLI.Close()

	if cmd == "stats" {
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			return err
		}
		fmt.Println(stats)
		return nil
	}
	if len(args) == 0 {
		return errors.New(usage)
	}
	info, err := jobsCLI.Trigger(ctx, args[0], args[1:])
	if err != nil {
		return err
	}
	fmt.Printf("enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	return nil
}
