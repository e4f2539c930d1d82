package domain

import "strings"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", &ValidationError{Field: "role", Reason: "must be one of user, admin"}
	}
}

// Viewer is the identity handed over by the authentication collaborator.
// It is trusted as-is.
type Viewer struct {
	Email string
	Role  Role
}

func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}
