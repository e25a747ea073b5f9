package domain

import "fmt"

// Role is the closed set of account roles carried in the token payload.
// A session's role is fixed for the token's lifetime; server-side role
// changes require re-authentication.
type Role string

const (
	RoleMember  Role = "Member"
	RoleManager Role = "Manager"
	RoleAdmin   Role = "Admin"
)

// ParseRole validates a raw role claim.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleManager, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// HomeRoute returns the default section for a role. Locally decoded roles
// drive routing only; the server enforces authorization on every call.
func (r Role) HomeRoute() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleManager:
		return "/manager"
	case RoleMember:
		return "/member"
	}
	return "/"
}
