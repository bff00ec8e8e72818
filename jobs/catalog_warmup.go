package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/catalog/remote"
	jobmetrics "github.com/almoxarifado/catalogo/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Searcher runs cached catalog lookups.
type Searcher interface {
	Lookup(ctx context.Context, q remote.Query) ([]catalog.Item, error)
}

// CatalogWarmupJob runs common searches so the first page view hits the cache.
type CatalogWarmupJob struct {
	Searcher Searcher
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
	Timeout  time.Duration
}

// NewCatalogWarmupJob wires dependencies for the warmup handler.
func NewCatalogWarmupJob(searcher Searcher, logger *slog.Logger, metrics *jobmetrics.Metrics) *CatalogWarmupJob {
	return &CatalogWarmupJob{Searcher: searcher, Logger: logger, Metrics: metrics, Timeout: 20 * time.Second}
}

// Handle processes TaskCatalogWarmup tasks.
func (j *CatalogWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Searcher == nil {
		return errors.New("catalog warmup: handler not configured")
	}
	var payload WarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	tracker := j.metrics().Track(TaskCatalogWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	start := time.Now()
	warmed := 0
	for _, q := range warmupQueries(payload) {
		n, err := j.warm(ctx, q)
		if err != nil {
			resultErr = err
			logger.Error("warm catalog query", slog.String("descricao", q.Description), slog.Any("error", err))
			return resultErr
		}
		warmed += n
	}
	j.metrics().AddWarmedItems(warmed)
	logger.Info("completed catalog warmup", slog.Int("items", warmed), slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *CatalogWarmupJob) warm(ctx context.Context, q remote.Query) (int, error) {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	items, err := j.Searcher.Lookup(queryCtx, q)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func warmupQueries(payload WarmupPayload) []remote.Query {
	queries := []remote.Query{{}}
	seen := map[string]struct{}{}
	for _, term := range payload.Terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		queries = append(queries, remote.Query{Description: term})
	}
	return queries
}

func (j *CatalogWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCatalogWarmup))
	}
	return slog.Default().With(slog.String("job", TaskCatalogWarmup))
}

func (j *CatalogWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
