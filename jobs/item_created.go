package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/almoxarifado/catalogo/internal/jobs"
)

// Invalidator drops cached search responses.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ItemCreatedJob invalidates the search cache once more after a registration,
// covering web processes that raced the first invalidation.
type ItemCreatedJob struct {
	Invalidator Invalidator
	Logger      *slog.Logger
	Metrics     *jobmetrics.Metrics
}

// NewItemCreatedJob wires dependencies for the item created handler.
func NewItemCreatedJob(invalidator Invalidator, logger *slog.Logger, metrics *jobmetrics.Metrics) *ItemCreatedJob {
	return &ItemCreatedJob{Invalidator: invalidator, Logger: logger, Metrics: metrics}
}

// Handle processes TaskItemCreated tasks.
func (j *ItemCreatedJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Invalidator == nil {
		return errors.New("item created: handler not configured")
	}
	var payload ItemCreatedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	metrics := j.Metrics
	if metrics == nil {
		metrics = defaultJobMetrics
	}
	tracker := metrics.Track(TaskItemCreated)
	defer func() {
		err = tracker.End(err)
	}()

	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err = j.Invalidator.Invalidate(ctx); err != nil {
		logger.Error("invalidate search cache", slog.String("codigo", payload.Code), slog.Any("error", err))
		return err
	}
	logger.Info("catalog item registered", slog.String("job", TaskItemCreated), slog.String("codigo", payload.Code))
	return nil
}
