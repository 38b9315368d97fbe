package auth

import (
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// User is the session profile kept under auth_user.
type User struct {
	ID          int                `json:"id"`
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	Image       string             `json:"image,omitempty"`
	Role        enums.Role         `json:"role"`
	Permissions []enums.Permission `json:"permissions"`
	LastLogin   time.Time          `json:"lastLogin"`
	IsActive    bool               `json:"isActive"`
}

// Session pairs the stored user with its bearer token.
type Session struct {
	Token     string     `json:"token"`
	User      User       `json:"user"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// LoginRequest is the body accepted by the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body accepted by the register endpoint.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=6"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// HasPermission reports whether the user lists permission. Admins hold
// every permission.
func (u User) HasPermission(permission enums.Permission) bool {
	if u.Role == enums.RoleAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u User) HasRole(role enums.Role) bool {
	return u.Role == role
}

func withDefaults(u User, now time.Time) User {
	u.Role = enums.RoleUser
	u.Permissions = []enums.Permission{enums.PermissionViewContent}
	u.IsActive = true
	u.LastLogin = now
	return u
}
