package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/authz"
)

func claims(id int64, role auth.Role) *auth.Claims {
	return &auth.Claims{UserID: id, Email: "user@example.com", Role: role}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name   string
		claims *auth.Claims
		req    authz.Requirement
		allow  bool
		reason authz.Reason
	}{
		{
			name:   "no claims is unauthenticated",
			claims: nil,
			req:    authz.AnyAuthenticated(),
			reason: authz.ReasonUnauthenticated,
		},
		{
			name:   "any authenticated allows any role",
			claims: claims(1, auth.RoleUser),
			req:    authz.AnyAuthenticated(),
			allow:  true,
		},
		{
			name:   "role not in set is forbidden",
			claims: claims(1, auth.RoleUser),
			req:    authz.RoleIn(auth.RoleAdmin),
			reason: authz.ReasonForbidden,
		},
		{
			name:   "role in set allows",
			claims: claims(1, auth.RoleStoreOwner),
			req:    authz.RoleIn(auth.RoleStoreOwner, auth.RoleAdmin),
			allow:  true,
		},
		{
			name:   "nil claims against role requirement is unauthenticated",
			claims: nil,
			req:    authz.RoleIn(auth.RoleAdmin),
			reason: authz.ReasonUnauthenticated,
		},
		{
			name:   "owner allowed without elevated role",
			claims: claims(7, auth.RoleUser),
			req:    authz.OwnerOrRole(7, auth.RoleAdmin),
			allow:  true,
		},
		{
			name:   "admin allowed on someone else's resource",
			claims: claims(8, auth.RoleAdmin),
			req:    authz.OwnerOrRole(7, auth.RoleAdmin),
			allow:  true,
		},
		{
			name:   "stranger without role is forbidden",
			claims: claims(8, auth.RoleUser),
			req:    authz.OwnerOrRole(7, auth.RoleAdmin),
			reason: authz.ReasonForbidden,
		},
		{
			name:   "self allowed on own profile",
			claims: claims(3, auth.RoleUser),
			req:    authz.SelfOrRole(3, auth.RoleAdmin),
			allow:  true,
		},
		{
			name:   "other user's profile is forbidden",
			claims: claims(3, auth.RoleUser),
			req:    authz.SelfOrRole(4, auth.RoleAdmin),
			reason: authz.ReasonForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := authz.Evaluate(tc.claims, tc.req)
			assert.Equal(t, tc.allow, d.Allow)
			assert.Equal(t, tc.reason, d.Reason)
		})
	}
}

// A user rates a store, may later modify their own rating, and a different
// plain user may not.
func TestRatingOwnershipScenario(t *testing.T) {
	const ratingOwnerID = 1

	owner := claims(ratingOwnerID, auth.RoleUser)
	stranger := claims(2, auth.RoleUser)

	requirement := authz.OwnerOrRole(ratingOwnerID, auth.RoleAdmin)

	assert.True(t, authz.Evaluate(owner, requirement).Allow)

	d := authz.Evaluate(stranger, requirement)
	assert.False(t, d.Allow)
	assert.Equal(t, authz.ReasonForbidden, d.Reason)
}
