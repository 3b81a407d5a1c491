// Package authz decides whether an authenticated identity may perform an
// operation. Evaluation is a pure function over claims and a requirement;
// it never touches storage and never mutates its inputs.
package authz

import "github.com/ratehub/ratehub/internal/auth"

// Reason explains a deny decision. Unauthenticated and Forbidden map to
// distinct outward signals (401 vs 403).
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
)

// Decision is the outcome of evaluating a requirement.
type Decision struct {
	Allow  bool
	Reason Reason
}

type requirementKind int

const (
	kindAnyAuthenticated requirementKind = iota
	kindRoleIn
	kindOwnerOrRole
	kindSelfOrRole
)

// Requirement describes what the acting identity must satisfy.
type Requirement struct {
	kind      requirementKind
	subjectID int64
	roles     []auth.Role
}

// AnyAuthenticated requires only that claims are present.
func AnyAuthenticated() Requirement {
	return Requirement{kind: kindAnyAuthenticated}
}

// RoleIn requires the actor's role to be one of the given roles.
func RoleIn(roles ...auth.Role) Requirement {
	return Requirement{kind: kindRoleIn, roles: roles}
}

// OwnerOrRole allows the owner of a resource, or any of the given roles.
// This is the dominant pattern for store and rating mutation.
func OwnerOrRole(ownerID int64, roles ...auth.Role) Requirement {
	return Requirement{kind: kindOwnerOrRole, subjectID: ownerID, roles: roles}
}

// SelfOrRole allows the user a record belongs to, or any of the given roles.
// Used for profile reads and updates.
func SelfOrRole(targetID int64, roles ...auth.Role) Requirement {
	return Requirement{kind: kindSelfOrRole, subjectID: targetID, roles: roles}
}

// Evaluate computes the access decision for the given claims. Nil claims
// always deny with ReasonUnauthenticated.
func Evaluate(claims *auth.Claims, req Requirement) Decision {
	if claims == nil {
		return Decision{Reason: ReasonUnauthenticated}
	}
	switch req.kind {
	case kindAnyAuthenticated:
		return Decision{Allow: true}
	case kindRoleIn:
		if roleIn(claims.Role, req.roles) {
			return Decision{Allow: true}
		}
	case kindOwnerOrRole, kindSelfOrRole:
		if claims.UserID == req.subjectID || roleIn(claims.Role, req.roles) {
			return Decision{Allow: true}
		}
	}
	return Decision{Reason: ReasonForbidden}
}

func roleIn(role auth.Role, roles []auth.Role) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}
