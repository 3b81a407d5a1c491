package auth

import "time"

// Role is a coarse permission tier gating elevated operations.
type Role string

// The closed set of roles known to the platform.
const (
	RoleUser       Role = "user"
	RoleStoreOwner Role = "storeowner"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role belongs to the known set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleStoreOwner, RoleAdmin:
		return true
	}
	return false
}

// User represents an authenticated user account. PasswordHash never leaves
// this package.
type User struct {
	ID           int64
	Name         string
	Email        string
	Address      string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
