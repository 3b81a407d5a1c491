package users

import (
	"time"

	"github.com/ratehub/ratehub/internal/auth"
)

// User represents a user account for management. The password hash is never
// part of this view.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address,omitempty"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
