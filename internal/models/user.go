package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleParent      = "parent"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
)

// User represents a user authenticated via OIDC. Parents browse the
// directory; coordinators moderate listings and promotions.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Role      string    `json:"role"` // parent, coordinator, admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user is an admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsCoordinator returns true if the user can moderate listings and
// promotions.
func (u *User) IsCoordinator() bool {
	return u.Role == RoleCoordinator || u.Role == RoleAdmin
}
