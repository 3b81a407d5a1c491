package users

import (
	"context"

	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]User, int, error)
	Get(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*User, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles user management business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns one page of users. The slice is never nil so an empty page
// serializes as an empty JSON array.
func (s *Service) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	list, total, err := s.repo.List(ctx, limit, offset)
	if list == nil {
		list = []User{}
	}
	return list, total, err
}

// Get fetches a single user.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// Update applies profile changes on behalf of the given actor. Role changes
// are reserved for admins, and only roles from the known set are accepted.
func (s *Service) Update(ctx context.Context, actor *auth.Claims, id int64, params UpdateParams) (*User, error) {
	if params.Role != nil {
		if actor == nil || actor.Role != auth.RoleAdmin {
			return nil, shared.ErrRoleNotAllowed
		}
		if !params.Role.Valid() {
			return nil, shared.ErrRoleNotAllowed
		}
	}
	return s.repo.Update(ctx, id, params)
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
