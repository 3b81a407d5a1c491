package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/ratehub/ratehub/internal/shared"
)

// Service wraps signup and login business rules.
type Service struct {
	repo  Repository
	codec *TokenCodec
}

// NewService constructs a new Service.
func NewService(repo Repository, codec *TokenCodec) *Service {
	return &Service{repo: repo, codec: codec}
}

// SignupInput carries caller-supplied registration fields.
type SignupInput struct {
	Name     string
	Email    string
	Address  string
	Password string
	Role     Role
}

// Signup registers a new account and issues its first bearer token. The role
// defaults to RoleUser; admin cannot be self-assigned, elevation happens only
// through the admin-only user update path.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*User, string, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", shared.ErrMissingField
	}
	role := in.Role
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() || role == RoleAdmin {
		return nil, "", shared.ErrRoleNotAllowed
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, "", shared.ErrEmailInUse
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.Create(ctx, CreateUserParams{
		Name:         in.Name,
		Email:        in.Email,
		Address:      in.Address,
		Role:         role,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.codec.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile returns the stored account for an authenticated principal. Reads
// from storage rather than the token, so role changes show up immediately.
func (s *Service) Profile(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// Login validates email/password credentials and issues a bearer token bound
// to the account's current identity fields. Unknown email and wrong password
// return the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, "", shared.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
