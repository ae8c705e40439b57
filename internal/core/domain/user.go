package domain

import (
	"errors"
	"time"
)

// Role is the closed set of authorization categories a user can hold.
type Role string

const (
	RoleClient  Role = "client"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

var ErrInvalidInput = errors.New("invalid input")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrForbidden = errors.New("access forbidden")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenMalformed = errors.New("token malformed")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrStoreUnavailable = errors.New("identity store unavailable")

// User models an authenticated actor in the system. The password hash never
// leaves the persistence boundary: it is excluded from every JSON response.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}
