package enum

import "strings"

// Roles as issued by the upstream API.
const (
	RoleAdmin  = "admin"
	RoleSeller = "vendedor"
	RoleClient = "cliente"
)

// IsStaffRole reports whether the role can ring up sales.
func IsStaffRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin, RoleSeller:
		return true
	}
	return false
}

func IsAdminRole(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), RoleAdmin)
}
