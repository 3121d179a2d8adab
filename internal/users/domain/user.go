package domain

import (
	"time"

	"github.com/midgarden/userd/pkg/userapi"
)

// User is the persisted account record. PasswordHash never leaves the service
// boundary; use Sanitized for anything that gets serialized outward.
type User struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string // bcrypt encoded
	Role                Role
	IsActive            bool
	FailedLoginAttempts int
	LastLoginAt         *time.Time // nil until first successful login
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Sanitized returns the wire representation with all credential material
// stripped.
func (u User) Sanitized() userapi.User {
	return userapi.User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role.String(),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
