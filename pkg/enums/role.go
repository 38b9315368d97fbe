package enums

import (
	"fmt"
	"strings"
)

// Role is the advisory role attached to a signed-in user.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
)

var validRoles = []Role{
	RoleAdmin,
	RoleUser,
	RoleManager,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role. Matching is case-insensitive.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// Permission names a capability checked by the advisory permission helpers.
type Permission string

const (
	PermissionViewContent Permission = "view_content"
	PermissionEditContent Permission = "edit_content"
	PermissionManageUsers Permission = "manage_users"
)
