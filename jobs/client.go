package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
)

// Client enqueues catalog tasks from the web process. A nil Client drops
// follow-up tasks silently.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an asynq-backed Client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueItemCreated schedules the follow-up of a registered item.
func (c *Client) EnqueueItemCreated(ctx context.Context, code string) error {
	if c == nil {
		return nil
	}
	task, err := NewItemCreatedTask(ItemCreatedPayload{Code: code})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
	return err
}

// EnqueueWarmup asks for an immediate warmup. Requests within a minute of
// each other collapse into one task.
func (c *Client) EnqueueWarmup(ctx context.Context, payload WarmupPayload) (*asynq.TaskInfo, error) {
	if c == nil {
		return nil, nil
	}
	task, err := NewWarmupTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.Unique(time.Minute))
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
