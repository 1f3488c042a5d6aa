// Package auth provides account and session management for gymmate.
package auth

import (
	"net/mail"
	"strings"

	"github.com/gymmate/gymmate/internal/api/models"
)

// MinPasswordLength is enforced at signup only, so older accounts can still log in.
const MinPasswordLength = 6

// Credentials is the request body for signup and login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims surrounding whitespace from the email.
func (c *Credentials) Normalize() {
	c.Email = strings.TrimSpace(c.Email)
}

// Validate checks the credentials. Signup also requires a minimum password length.
func (c *Credentials) Validate(signup bool) error {
	var v models.Validator

	switch {
	case c.Email == "":
		v.Add("email", models.CodeRequired, "email is required")
	case !validEmail(c.Email):
		v.Add("email", models.CodeInvalid, "email must be a valid address")
	}

	switch {
	case c.Password == "":
		v.Add("password", models.CodeRequired, "password is required")
	case signup && len(c.Password) < MinPasswordLength:
		v.Add("password", models.CodeTooShort, "password must be at least 6 characters")
	}

	return v.Err()
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// ResultCode classifies an unsuccessful signup or login.
type ResultCode string

// Result codes.
const (
	CodeDuplicateUser      ResultCode = "DUPLICATE_USER"
	CodeInvalidCredentials ResultCode = "INVALID_CREDENTIALS"
)

// Result messages shown to users.
const (
	MsgDuplicateUser      = "User with this email already exists."
	MsgInvalidCredentials = "Invalid email or password."
)

// Result is the outcome of signup or login. Expected failures are reported
// here rather than as errors.
type Result struct {
	Success bool           `json:"success"`
	Code    ResultCode     `json:"code,omitempty"`
	Error   string         `json:"error,omitempty"`
	Token   *TokenResponse `json:"token,omitempty"`
}

// TokenResponse represents the response after successful authentication.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// Email is the authenticated account.
	Email string `json:"email"`
}

// Session describes the current session.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}
