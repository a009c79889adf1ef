// Package models defines accounts and roles.
package models

import (
	"net/mail"
	"strings"
	"time"

	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
)

// Role names. Staff endpoints are gated on these.
const (
	RoleAdmin     = "ADMIN"
	RoleRecruiter = "RECRUITER"
	RoleUser      = "USER"
)

// Role is an access-control role with coarse permissions.
type Role struct {
	ID          id.RoleID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
}

// User is an account. Entity-provisioned accounts carry the owning EntityID;
// staff accounts do not.
type User struct {
	ID           id.UserID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Active       bool        `json:"active"`
	EntityID     id.EntityID `json:"entityId,omitempty"`
	Roles        []Role      `json:"roles,omitempty"`

	ResetToken        string    `json:"-"`
	ResetTokenExpires time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser constructs an active user. The caller supplies the password hash;
// models never see plaintext.
func NewUser(username, email, passwordHash string, now time.Time) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "username is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email is not a valid address")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash is required")
	}
	return &User{
		ID:           id.NewUserID(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RoleNames returns the user's role names for token claims.
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		names[i] = role.Name
	}
	return names
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// SetResetToken arms the password reset window.
func (u *User) SetResetToken(token string, expires time.Time, now time.Time) {
	u.ResetToken = token
	u.ResetTokenExpires = expires
	u.UpdatedAt = now
}

// ResetTokenValid reports whether the given token matches and has not
// expired.
func (u *User) ResetTokenValid(token string, now time.Time) bool {
	return u.ResetToken != "" && u.ResetToken == token && now.Before(u.ResetTokenExpires)
}

// ApplyPasswordReset replaces the password hash and disarms the reset token.
func (u *User) ApplyPasswordReset(passwordHash string, now time.Time) {
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	u.ResetTokenExpires = time.Time{}
	u.UpdatedAt = now
}
