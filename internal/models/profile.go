// ===============================
// internal/models/profile.go - User profiles and roles
// ===============================

package models

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the assignable roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Profile is the application-side record of a Firebase account.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (p *Profile) Normalize() {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Role = strings.ToLower(strings.TrimSpace(p.Role))
	if p.Role == "" {
		p.Role = RoleUser
	}
}

func (p *Profile) Valid() error {
	if p.ID == "" {
		return errors.New("profile without id")
	}
	if !ValidRole(p.Role) {
		return errors.New("profile with unknown role " + p.Role)
	}
	return nil
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CreateUserRequest is the admin "new user" form.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest edits a profile's email or role. Nil means unchanged.
type UpdateUserRequest struct {
	Email *string `json:"email"`
	Role  *string `json:"role"`
}
