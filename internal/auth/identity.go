package auth

import "github.com/hongminglow/taskdesk/internal/models"

// Identity is the authenticated caller of a request. It is produced once by
// token verification and passed by value into every downstream call.
type Identity struct {
	UserID string
	Role   models.Role
	Name   string
}

// IsAdmin reports whether the identity holds the Admin role.
func (id Identity) IsAdmin() bool {
	return id.Role.IsAdmin()
}
