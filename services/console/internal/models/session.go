package models

import "strings"

// RoleAdmin is the only role with elevated rights in the console.
const RoleAdmin = "admin"

// User is the signed-in identity as returned by /auth/login and /auth/register.
// The same shape is persisted under the "user" storage entry.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token,omitempty"`
}

// Complete reports whether every field, token included, is populated.
// Anything less is not a valid session.
func (u *User) Complete() bool {
	if u == nil {
		return false
	}
	for _, v := range []string{u.ID, u.Name, u.Email, u.Role, u.Token} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
