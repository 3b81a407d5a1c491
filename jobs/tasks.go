package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSummaryRefresh recomputes one store's rating aggregate.
	TaskSummaryRefresh = "ratings:refresh_summary"
	// TaskSummaryRefreshAll recomputes every store's rating aggregate.
	TaskSummaryRefreshAll = "ratings:refresh_all"
)

// SummaryRefreshPayload identifies the store whose aggregate is refreshed.
type SummaryRefreshPayload struct {
	StoreID int64 `json:"storeId"`
}

// NewSummaryRefreshTask constructs an Asynq task for one store.
func NewSummaryRefreshTask(payload SummaryRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSummaryRefresh, data), nil
}

// NewSummaryRefreshAllTask constructs the periodic all-stores task.
func NewSummaryRefreshAllTask() *asynq.Task {
	return asynq.NewTask(TaskSummaryRefreshAll, nil)
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueSummaryRefresh enqueues an aggregate recomputation for one store.
func (c *Client) EnqueueSummaryRefresh(ctx context.Context, storeID int64) error {
	task, err := NewSummaryRefreshTask(SummaryRefreshPayload{StoreID: storeID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
