package ratings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratehub/ratehub/internal/platform/httpx"
	"github.com/ratehub/ratehub/internal/ratings"
	"github.com/ratehub/ratehub/internal/shared"
)

type stubRepo struct {
	records map[int64]*ratings.Rating
	nextID  int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{records: map[int64]*ratings.Rating{}, nextID: 1}
}

func (s *stubRepo) List(_ context.Context, limit, offset int) ([]ratings.Rating, int, error) {
	var list []ratings.Rating
	for _, rating := range s.records {
		list = append(list, *rating)
	}
	return list, len(s.records), nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (*ratings.Rating, error) {
	if rating, ok := s.records[id]; ok {
		return rating, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) Create(_ context.Context, params ratings.CreateParams) (*ratings.Rating, error) {
	rating := &ratings.Rating{
		ID:      s.nextID,
		StoreID: params.StoreID,
		UserID:  params.UserID,
		Score:   params.Score,
		Comment: params.Comment,
	}
	s.nextID++
	s.records[rating.ID] = rating
	return rating, nil
}

func (s *stubRepo) Update(_ context.Context, id int64, params ratings.UpdateParams) (*ratings.Rating, error) {
	rating, ok := s.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if params.Score != nil {
		rating.Score = *params.Score
	}
	if params.Comment != nil {
		rating.Comment = *params.Comment
	}
	return rating, nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.records[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type recorder struct {
	invalidated []int64
	enqueued    []int64
}

func (r *recorder) InvalidateSummary(_ context.Context, storeID int64) error {
	r.invalidated = append(r.invalidated, storeID)
	return nil
}

func (r *recorder) EnqueueSummaryRefresh(_ context.Context, storeID int64) error {
	r.enqueued = append(r.enqueued, storeID)
	return nil
}

func newService() (*ratings.Service, *stubRepo, *recorder) {
	repo := newStubRepo()
	rec := &recorder{}
	return ratings.NewService(repo, rec, rec, nil), repo, rec
}

func TestCreateTriggersSummaryRefresh(t *testing.T) {
	service, _, rec := newService()

	rating, err := service.Create(context.Background(), ratings.CreateParams{StoreID: 4, UserID: 1, Score: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(4), rating.StoreID)
	assert.Equal(t, []int64{4}, rec.invalidated)
	assert.Equal(t, []int64{4}, rec.enqueued)
}

func TestCreateRejectsOutOfRangeScore(t *testing.T) {
	service, _, rec := newService()

	for _, score := range []int{0, 6, -1} {
		_, err := service.Create(context.Background(), ratings.CreateParams{StoreID: 4, UserID: 1, Score: score})
		assert.ErrorIs(t, err, httpx.ErrValidation, "score %d", score)
	}
	assert.Empty(t, rec.enqueued)
}

func TestUpdateRevalidatesScore(t *testing.T) {
	service, _, _ := newService()

	rating, err := service.Create(context.Background(), ratings.CreateParams{StoreID: 4, UserID: 1, Score: 3})
	require.NoError(t, err)

	bad := 9
	_, err = service.Update(context.Background(), rating.ID, ratings.UpdateParams{Score: &bad})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	good := 4
	updated, err := service.Update(context.Background(), rating.ID, ratings.UpdateParams{Score: &good})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Score)
}

func TestDeleteTriggersSummaryRefresh(t *testing.T) {
	service, repo, rec := newService()

	rating, err := service.Create(context.Background(), ratings.CreateParams{StoreID: 7, UserID: 1, Score: 2})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), rating.ID))
	assert.Empty(t, repo.records)
	assert.Equal(t, []int64{7, 7}, rec.invalidated)

	assert.ErrorIs(t, service.Delete(context.Background(), rating.ID), shared.ErrNotFound)
}
