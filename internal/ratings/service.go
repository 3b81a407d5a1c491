package ratings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ratehub/ratehub/internal/platform/httpx"
)

// RepositoryPort defines data access methods for ratings.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]Rating, int, error)
	Get(ctx context.Context, id int64) (*Rating, error)
	Create(ctx context.Context, params CreateParams) (*Rating, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Rating, error)
	Delete(ctx context.Context, id int64) error
}

// SummaryInvalidator drops a store's cached rating aggregate.
type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context, storeID int64) error
}

// RefreshEnqueuer schedules a background recomputation of a store's
// aggregate.
type RefreshEnqueuer interface {
	EnqueueSummaryRefresh(ctx context.Context, storeID int64) error
}

// Service handles rating business logic. Every mutation invalidates the
// store's summary cache and enqueues a persistent refresh.
type Service struct {
	repo      RepositoryPort
	summaries SummaryInvalidator
	enqueuer  RefreshEnqueuer
	logger    *slog.Logger
}

// NewService builds a Service instance. summaries and enqueuer may be nil.
func NewService(repo RepositoryPort, summaries SummaryInvalidator, enqueuer RefreshEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, summaries: summaries, enqueuer: enqueuer, logger: logger}
}

// List returns one page of ratings. The slice is never nil so an empty page
// serializes as an empty JSON array.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Rating, int, error) {
	list, total, err := s.repo.List(ctx, limit, offset)
	if list == nil {
		list = []Rating{}
	}
	return list, total, err
}

// Get fetches a single rating.
func (s *Service) Get(ctx context.Context, id int64) (*Rating, error) {
	return s.repo.Get(ctx, id)
}

// Create records a new rating for an existing store.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Rating, error) {
	if err := validScore(params.Score); err != nil {
		return nil, err
	}
	rating, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, rating.StoreID)
	return rating, nil
}

// Update applies rating changes.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Rating, error) {
	if params.Score != nil {
		if err := validScore(*params.Score); err != nil {
			return nil, err
		}
	}
	rating, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, rating.StoreID)
	return rating, nil
}

// Delete removes a rating.
func (s *Service) Delete(ctx context.Context, id int64) error {
	rating, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.afterMutation(ctx, rating.StoreID)
	return nil
}

func (s *Service) afterMutation(ctx context.Context, storeID int64) {
	if s.summaries != nil {
		if err := s.summaries.InvalidateSummary(ctx, storeID); err != nil && s.logger != nil {
			s.logger.Warn("invalidate summary", slog.Int64("store_id", storeID), slog.Any("error", err))
		}
	}
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueSummaryRefresh(ctx, storeID); err != nil && s.logger != nil {
			s.logger.Warn("enqueue summary refresh", slog.Int64("store_id", storeID), slog.Any("error", err))
		}
	}
}

func validScore(score int) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("%w: score must be between 1 and 5", httpx.ErrValidation)
	}
	return nil
}
