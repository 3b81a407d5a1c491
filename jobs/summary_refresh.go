package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ratehub/ratehub/internal/shared"
	"github.com/ratehub/ratehub/internal/stores"
)

// SummaryRefreshJob recomputes store rating aggregates in the background.
type SummaryRefreshJob struct {
	stores  *stores.Service
	logger  *slog.Logger
	metrics *Metrics
}

// NewSummaryRefreshJob constructs the job. metrics may be nil.
func NewSummaryRefreshJob(storesService *stores.Service, logger *slog.Logger, metrics *Metrics) *SummaryRefreshJob {
	return &SummaryRefreshJob{stores: storesService, logger: logger, metrics: metrics}
}

// HandleRefresh processes a single-store refresh task.
func (j *SummaryRefreshJob) HandleRefresh(ctx context.Context, t *asynq.Task) error {
	return j.metrics.Track(TaskSummaryRefresh).End(j.handleRefresh(ctx, t))
}

func (j *SummaryRefreshJob) handleRefresh(ctx context.Context, t *asynq.Task) error {
	var payload SummaryRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	summary, err := j.stores.RefreshSummary(ctx, payload.StoreID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Store deleted while the task was queued.
			return nil
		}
		return err
	}
	if j.logger != nil {
		j.logger.Info("summary refreshed",
			slog.Int64("store_id", payload.StoreID),
			slog.Int("count", summary.Count),
			slog.Float64("average", summary.Average))
	}
	return nil
}

// HandleRefreshAll walks every store and refreshes its aggregate.
func (j *SummaryRefreshJob) HandleRefreshAll(ctx context.Context, t *asynq.Task) error {
	return j.metrics.Track(TaskSummaryRefreshAll).End(j.handleRefreshAll(ctx))
}

func (j *SummaryRefreshJob) handleRefreshAll(ctx context.Context) error {
	ids, err := j.stores.StoreIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := j.stores.RefreshSummary(ctx, id); err != nil {
			if j.logger != nil {
				j.logger.Warn("refresh summary", slog.Int64("store_id", id), slog.Any("error", err))
			}
		}
	}
	return nil
}
