package types

import "time"

type Role string

const (
	RoleUnset   Role = ""
	RoleDonor   Role = "DONOR"
	RoleCharity Role = "CHARITY"
)

// ValidRole reports whether r is a role a user can choose. RoleUnset is a
// transient state between login and role selection, never a valid choice.
func ValidRole(r Role) bool {
	return r == RoleDonor || r == RoleCharity
}

// User identity is the (Name, Email, PIN) tuple. The PIN is a plaintext
// shared secret matched exactly on login; it is not a security boundary.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PIN       string    `json:"pin"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) IsDonor() bool {
	return u != nil && u.Role == RoleDonor
}

func (u *User) IsCharity() bool {
	return u != nil && u.Role == RoleCharity
}
