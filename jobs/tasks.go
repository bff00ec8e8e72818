package jobs

import (
	"encoding/json"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogWarmup preloads the search cache with common queries.
	TaskCatalogWarmup = "catalog:warmup"
	// TaskItemCreated follows up on an item registered through the web page.
	TaskItemCreated = "catalog:item_created"
)

// WarmupPayload lists extra description terms to warm besides the unfiltered query.
type WarmupPayload struct {
	Terms []string `json:"terms,omitempty"`
}

// ItemCreatedPayload identifies the registered item.
type ItemCreatedPayload struct {
	Code string `json:"codigo"`
}

// NewWarmupTask constructs the warmup task.
func NewWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogWarmup, data), nil
}

// NewItemCreatedTask constructs the item created task.
func NewItemCreatedTask(payload ItemCreatedPayload) (*asynq.Task, error) {
	payload.Code = strings.TrimSpace(payload.Code)
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskItemCreated, data), nil
}
