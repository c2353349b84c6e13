package models

import (
	"strings"
	"time"

	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/email"
	"brewleaf/pkg/requestcontext"
)

const minPasswordLength = 8

// User is a storefront account. PasswordHash is a bcrypt hash and never
// leaves the service.
type User struct {
	ID           id.UserID           `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	PasswordHash string              `json:"-"`
	Role         requestcontext.Role `json:"role"`
	CreatedAt    time.Time           `json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = email.Normalize(r.Email)
}

func (r *RegisterRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if !email.Valid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	if len(r.Password) < minPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResult is returned by a successful login or registration.
type TokenResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

