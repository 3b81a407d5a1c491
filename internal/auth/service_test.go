package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/shared"
)

type stubRepo struct {
	users  map[string]*auth.User
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: map[string]*auth.User{}, nextID: 1}
}

func (s *stubRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if user, ok := s.users[email]; ok {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByID(_ context.Context, id int64) (*auth.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) Create(_ context.Context, params auth.CreateUserParams) (*auth.User, error) {
	if _, ok := s.users[params.Email]; ok {
		return nil, shared.ErrEmailInUse
	}
	user := &auth.User{
		ID:           s.nextID,
		Name:         params.Name,
		Email:        params.Email,
		Address:      params.Address,
		Role:         params.Role,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.nextID++
	s.users[params.Email] = user
	return user, nil
}

func newService(repo auth.Repository) (*auth.Service, *auth.TokenCodec) {
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	return auth.NewService(repo, codec), codec
}

func TestSignupIssuesMatchingToken(t *testing.T) {
	service, codec := newService(newStubRepo())

	user, token, err := service.Signup(context.Background(), auth.SignupInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Address:  "1 Main St",
		Password: "correcthorse",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, user.Role)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
}

func TestSignupDuplicateEmail(t *testing.T) {
	service, _ := newService(newStubRepo())

	input := auth.SignupInput{Name: "Alice", Email: "alice@example.com", Password: "correcthorse"}
	_, _, err := service.Signup(context.Background(), input)
	require.NoError(t, err)

	// Same email always rejects, regardless of other fields.
	input.Name = "Someone Else"
	input.Password = "other-password"
	_, _, err = service.Signup(context.Background(), input)
	assert.ErrorIs(t, err, shared.ErrEmailInUse)
}

func TestSignupMissingFields(t *testing.T) {
	service, _ := newService(newStubRepo())

	cases := []auth.SignupInput{
		{Email: "a@example.com", Password: "correcthorse"},
		{Name: "Alice", Password: "correcthorse"},
		{Name: "Alice", Email: "a@example.com"},
	}
	for _, input := range cases {
		_, _, err := service.Signup(context.Background(), input)
		assert.ErrorIs(t, err, shared.ErrMissingField)
	}
}

func TestSignupRolePolicy(t *testing.T) {
	service, _ := newService(newStubRepo())

	_, _, err := service.Signup(context.Background(), auth.SignupInput{
		Name: "Mallory", Email: "m@example.com", Password: "correcthorse", Role: auth.RoleAdmin,
	})
	assert.ErrorIs(t, err, shared.ErrRoleNotAllowed)

	_, _, err = service.Signup(context.Background(), auth.SignupInput{
		Name: "Mallory", Email: "m@example.com", Password: "correcthorse", Role: "superuser",
	})
	assert.ErrorIs(t, err, shared.ErrRoleNotAllowed)

	user, _, err := service.Signup(context.Background(), auth.SignupInput{
		Name: "Olive", Email: "olive@example.com", Password: "correcthorse", Role: auth.RoleStoreOwner,
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleStoreOwner, user.Role)
}

func TestLogin(t *testing.T) {
	repo := newStubRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo.users["alice@example.com"] = &auth.User{
		ID: 1, Name: "Alice", Email: "alice@example.com", Role: auth.RoleUser, PasswordHash: string(hash),
	}
	service, codec := newService(repo)

	user, token, err := service.Login(context.Background(), "alice@example.com", "correcthorse")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, claims.Email)
}

func TestLoginDoesNotLeakWhichCheckFailed(t *testing.T) {
	repo := newStubRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)
	require.NoError(t, err)
	repo.users["alice@example.com"] = &auth.User{
		ID: 1, Email: "alice@example.com", Role: auth.RoleUser, PasswordHash: string(hash),
	}
	service, _ := newService(repo)

	_, _, wrongPassword := service.Login(context.Background(), "alice@example.com", "wrong")
	_, _, unknownEmail := service.Login(context.Background(), "nobody@example.com", "whatever")

	assert.ErrorIs(t, wrongPassword, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, shared.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
