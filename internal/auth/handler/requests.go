package handler

import (
	"net/mail"
	"strings"

	dErrors "smarttalent/pkg/domain-errors"
)

// RegisterBody is the HTTP body for POST /auth/register.
type RegisterBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (b *RegisterBody) Validate() error {
	b.Username = strings.TrimSpace(b.Username)
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	if b.Username == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	if _, err := mail.ParseAddress(b.Email); err != nil {
		return dErrors.New(dErrors.CodeValidation, "email is not a valid address")
	}
	if b.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

// LoginBody is the HTTP body for POST /auth/login.
type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (b *LoginBody) Validate() error {
	b.Email = strings.TrimSpace(b.Email)
	if b.Email == "" || b.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	return nil
}

// ForgotPasswordBody is the HTTP body for POST /auth/forgot-password.
type ForgotPasswordBody struct {
	Email string `json:"email"`
}

func (b *ForgotPasswordBody) Validate() error {
	b.Email = strings.TrimSpace(b.Email)
	if b.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return nil
}

// ResetPasswordBody is the HTTP body for POST /auth/reset-password.
type ResetPasswordBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (b *ResetPasswordBody) Validate() error {
	b.Token = strings.TrimSpace(b.Token)
	if b.Token == "" {
		return dErrors.New(dErrors.CodeValidation, "token is required")
	}
	if b.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}
