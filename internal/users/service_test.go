package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/shared"
	"github.com/ratehub/ratehub/internal/users"
)

type stubRepo struct {
	records map[int64]*users.User
}

func (s *stubRepo) List(_ context.Context, limit, offset int) ([]users.User, int, error) {
	var list []users.User
	for _, user := range s.records {
		list = append(list, *user)
	}
	return list, len(s.records), nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (*users.User, error) {
	if user, ok := s.records[id]; ok {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) Update(_ context.Context, id int64, params users.UpdateParams) (*users.User, error) {
	user, ok := s.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Address != nil {
		user.Address = *params.Address
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
	return user, nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.records[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func adminClaims() *auth.Claims {
	return &auth.Claims{UserID: 99, Role: auth.RoleAdmin}
}

func userClaims(id int64) *auth.Claims {
	return &auth.Claims{UserID: id, Role: auth.RoleUser}
}

func TestListEmptyIsNeverNil(t *testing.T) {
	service := users.NewService(&stubRepo{records: map[int64]*users.User{}})

	list, total, err := service.List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, list, "empty page must serialize as an array")
}

func TestUpdateProfileFields(t *testing.T) {
	repo := &stubRepo{records: map[int64]*users.User{1: {ID: 1, Name: "Alice", Role: auth.RoleUser}}}
	service := users.NewService(repo)

	name := "Alice Cooper"
	updated, err := service.Update(context.Background(), userClaims(1), 1, users.UpdateParams{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, auth.RoleUser, updated.Role)
}

func TestRoleChangeRequiresAdmin(t *testing.T) {
	repo := &stubRepo{records: map[int64]*users.User{1: {ID: 1, Name: "Alice", Role: auth.RoleUser}}}
	service := users.NewService(repo)

	role := auth.RoleStoreOwner
	_, err := service.Update(context.Background(), userClaims(1), 1, users.UpdateParams{Role: &role})
	assert.ErrorIs(t, err, shared.ErrRoleNotAllowed)

	updated, err := service.Update(context.Background(), adminClaims(), 1, users.UpdateParams{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleStoreOwner, updated.Role)
}

func TestRoleChangeRejectsUnknownRole(t *testing.T) {
	repo := &stubRepo{records: map[int64]*users.User{1: {ID: 1, Role: auth.RoleUser}}}
	service := users.NewService(repo)

	role := auth.Role("superuser")
	_, err := service.Update(context.Background(), adminClaims(), 1, users.UpdateParams{Role: &role})
	assert.ErrorIs(t, err, shared.ErrRoleNotAllowed)
}
