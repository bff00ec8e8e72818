// Package cli holds the manual queue helpers of the worker binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/almoxarifado/catalogo/jobs"
)

// JobsCLI enqueues tasks by hand and reads queue statistics.
type JobsCLI struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewJobsCLI opens a client and an inspector on the queue Redis.
func NewJobsCLI(opts asynq.RedisClientOpt) *JobsCLI {
	return &JobsCLI{client: asynq.NewClient(opts), inspector: asynq.NewInspector(opts)}
}

// Close releases both connections.
func (c *JobsCLI) Close() error {
	if c == nil {
		return nil
	}
	return errors.Join(c.inspector.Close(), c.client.Close())
}

// TaskFor builds the task behind a job name. Arguments become warmup terms
// or the code of a created item.
func TaskFor(name string, args []string) (*asynq.Task, error) {
	switch name {
	case jobs.TaskCatalogWarmup, "warmup":
		return jobs.NewWarmupTask(jobs.WarmupPayload{Terms: args})
	case jobs.TaskItemCreated, "item_created":
		if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
			return nil, errors.New("jobs cli: item code required")
		}
		return jobs.NewItemCreatedTask(jobs.ItemCreatedPayload{Code: args[0]})
	}
	return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
}

// Trigger enqueues the named job with args.
func (c *JobsCLI) Trigger(ctx context.Context, name string, args []string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	task, err := TaskFor(name, args)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueDefault), asynq.MaxRetry(3))
}

// InspectQueue snapshots the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (jobs.QueueHealth, error) {
	if c == nil || c.inspector == nil {
		return jobs.QueueHealth{}, errors.New("jobs cli: inspector not configured")
	}
	return jobs.InspectQueue(c.inspector)
}
