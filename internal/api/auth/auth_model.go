package auth

import (
	"fmt"
	"net/mail"

	"github.com/rmarques/go-rest-starter/internal/api"
	"github.com/rmarques/go-rest-starter/internal/api/user"
)

const minPasswordLength = 6

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Validate checks the request shape before it reaches the service.
func (r *RegisterRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: email must be a valid address", api.ErrBadRequest)
	}
	if len(r.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", api.ErrBadRequest, minPasswordLength)
	}
	if r.FirstName == "" {
		return fmt.Errorf("%w: firstName is required", api.ErrBadRequest)
	}
	if r.LastName == "" {
		return fmt.Errorf("%w: lastName is required", api.ErrBadRequest)
	}
	return nil
}

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", api.ErrBadRequest)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", api.ErrBadRequest)
	}
	return nil
}

// PublicUser is the projection of a user returned by auth responses. It
// never carries the password hash.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// IssuedSession is returned on successful registration or login.
type IssuedSession struct {
	AccessToken string     `json:"access_token"`
	User        PublicUser `json:"user"`
}

func publicUser(u *user.User) PublicUser {
	return PublicUser{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}
