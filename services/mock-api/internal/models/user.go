package models

import "time"

// Roles known to the API.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account row.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// AuthPayload is the body of a successful register/login, wrapped in {data}.
type AuthPayload struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}
