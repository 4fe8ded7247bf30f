package models

// Role is the authorisation tier carried by an identity and its session token.
type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleGeneralUser Role = "General User"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleGeneralUser
}

// IsAdmin reports whether r grants unrestricted access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
