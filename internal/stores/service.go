package stores

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// RepositoryPort defines data access methods for stores.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]Store, int, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Get(ctx context.Context, id int64) (*Store, error)
	Create(ctx context.Context, params CreateParams) (*Store, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Store, error)
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context, storeID int64) (Summary, error)
	SaveSummary(ctx context.Context, summary Summary) error
}

// Service handles store business logic and summary caching.
type Service struct {
	repo   RepositoryPort
	cache  *SummaryCache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService builds a Service instance. cache may be nil, in which case
// summaries are computed on every call.
func NewService(repo RepositoryPort, cache *SummaryCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// List returns one page of stores. The slice is never nil so an empty page
// serializes as an empty JSON array.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Store, int, error) {
	list, total, err := s.repo.List(ctx, limit, offset)
	if list == nil {
		list = []Store{}
	}
	return list, total, err
}

// Get fetches a single store.
func (s *Service) Get(ctx context.Context, id int64) (*Store, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new store owned by the given principal.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Store, error) {
	return s.repo.Create(ctx, params)
}

// Update applies store changes.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Store, error) {
	return s.repo.Update(ctx, id, params)
}

// Delete removes a store and its cached summary.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil && s.logger != nil {
		s.logger.Warn("invalidate summary cache", slog.Int64("store_id", id), slog.Any("error", err))
	}
	return nil
}

// Summary returns the rating aggregate for a store, preferring the cache.
// Concurrent misses for the same store collapse into one recomputation.
func (s *Service) Summary(ctx context.Context, storeID int64) (Summary, error) {
	if summary, ok := s.cache.Get(ctx, storeID); ok {
		return summary, nil
	}
	result, err, _ := s.group.Do(fmt.Sprintf("summary:%d", storeID), func() (any, error) {
		summary, err := s.repo.Summary(ctx, storeID)
		if err != nil {
			return Summary{}, err
		}
		if err := s.cache.Set(ctx, summary); err != nil && s.logger != nil {
			s.logger.Warn("cache summary", slog.Int64("store_id", storeID), slog.Any("error", err))
		}
		return summary, nil
	})
	if err != nil {
		return Summary{}, err
	}
	return result.(Summary), nil
}

// InvalidateSummary drops the cached aggregate after a rating mutation.
func (s *Service) InvalidateSummary(ctx context.Context, storeID int64) error {
	return s.cache.Invalidate(ctx, storeID)
}

// RefreshSummary recomputes one store's aggregate, persists it onto the
// store row, and refreshes the cache. Called from the background worker.
func (s *Service) RefreshSummary(ctx context.Context, storeID int64) (Summary, error) {
	summary, err := s.repo.Summary(ctx, storeID)
	if err != nil {
		return Summary{}, err
	}
	if err := s.repo.SaveSummary(ctx, summary); err != nil {
		return Summary{}, err
	}
	if err := s.cache.Set(ctx, summary); err != nil && s.logger != nil {
		s.logger.Warn("cache summary", slog.Int64("store_id", storeID), slog.Any("error", err))
	}
	return summary, nil
}

// StoreIDs lists every store ID for the periodic refresh job.
func (s *Service) StoreIDs(ctx context.Context) ([]int64, error) {
	return s.repo.ListIDs(ctx)
}
