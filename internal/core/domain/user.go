package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrStateTokenInvalid = errors.New("oauth state token invalid or already used")

// User models a principal in the role directory. The role is assigned once,
// at signup or first OAuth login, and is read-only afterwards.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsValidRole reports whether role is one of the two recognised role tags.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
