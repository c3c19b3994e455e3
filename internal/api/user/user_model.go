package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the persisted account record. The password hash is never
// serialized.
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	IsActive        bool      `json:"isActive"`
	ProfilePicture  *string   `json:"profilePicture,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateUserParams carries everything needed to insert a new user.
type CreateUserParams struct {
	Email           string
	PasswordHash    string
	FirstName       string
	LastName        string
	Role            string
	IsEmailVerified bool
	IsActive        bool
}

// UpdateUserParams is a partial update; nil fields are left untouched.
type UpdateUserParams struct {
	Email           *string
	FirstName       *string
	LastName        *string
	Role            *string
	IsEmailVerified *bool
	IsActive        *bool
	ProfilePicture  *string
}

// NormalizeEmail lowercases and trims an email address. The normalized form
// is the uniqueness key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
