package user

import (
	"time"

	"github.com/google/uuid"
)

// Role constants (matches user_role enum)
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is a read-only projection of the account record owned by the
// external auth subsystem. The booking service only needs identity and
// display names.
type User struct {
	ID          uuid.UUID `db:"id"`
	DisplayName string    `db:"display_name"`
	Role        string    `db:"role"`
	CreatedAt   time.Time `db:"created_at"`
}

// IsAdmin returns true for administrator accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
