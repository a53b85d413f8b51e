package domain

import (
	"net/mail"
	"strings"
	"time"
)

// Role controls access to admin operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a domain user object
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User instance
func NewUser(email, fullName string) *User {
	now := time.Now()
	return &User{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		FullName:  strings.TrimSpace(fullName),
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the user
func (u *User) Validate() error {
	var errs ValidationErrors
	if u.Email == "" {
		errs = append(errs, NewMissingFieldError("email"))
	} else if _, err := mail.ParseAddress(u.Email); err != nil {
		errs = append(errs, NewInvalidFormatError("email", u.Email))
	}
	if u.FullName == "" {
		errs = append(errs, NewMissingFieldError("full_name"))
	}
	if u.Role != RoleUser && u.Role != RoleAdmin {
		errs = append(errs, NewInvalidFormatError("role", string(u.Role)))
	}
	return errs.OrNil()
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
