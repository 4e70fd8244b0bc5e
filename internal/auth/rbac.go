package auth

import "strings"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole accepts a role name case-insensitively. An empty name is the
// default admin role.
func ParseRole(role string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "", string(RoleAdmin):
		return RoleAdmin, true
	case string(RoleSuperAdmin):
		return RoleSuperAdmin, true
	default:
		return "", false
	}
}

func HasRole(role string, allowed ...Role) bool {
	current, ok := ParseRole(role)
	if !ok || strings.TrimSpace(role) == "" {
		return false
	}
	for _, candidate := range allowed {
		if current == candidate {
			return true
		}
	}
	return false
}

func IsSuperAdmin(role string) bool {
	return HasRole(role, RoleSuperAdmin)
}
