package domain

import "fmt"

// Role is a user's capability level on an account. Roles are totally
// ordered: Read < Write < Admin. Business logic compares Role values
// directly; the string form exists only for the persistence boundary.
type Role int

const (
	RoleRead Role = iota
	RoleWrite
	RoleAdmin
)

// AtLeast reports whether r grants at least the capabilities of min.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// String returns the stored form of the role.
func (r Role) String() string {
	switch r {
	case RoleRead:
		return "Read"
	case RoleWrite:
		return "Write"
	case RoleAdmin:
		return "Admin"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole converts a stored role string back to a Role. Only the
// persistence layer should need this.
func ParseRole(s string) (Role, error) {
	switch s {
	case "Read":
		return RoleRead, nil
	case "Write":
		return RoleWrite, nil
	case "Admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}
