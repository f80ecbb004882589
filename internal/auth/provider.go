// Package auth is the identity boundary: registering and signing users in,
// verifying tokens, and remembering the signed-in user between commands.
package auth

import (
	"context"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/types"
)

// Claims is what a verified token says about its bearer
type Claims struct {
	UserID types.UserID
	Email  string
	Name   string
}

// User converts claims to the user they describe
func (c Claims) User() models.User {
	return models.User{ID: c.UserID, Email: c.Email, Name: c.Name}
}

// Result is returned by a successful register or login
type Result struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Verifier checks a bearer token
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Provider issues tokens for email/password accounts
type Provider interface {
	Verifier
	Register(ctx context.Context, email, password, name string) (Result, error)
	Login(ctx context.Context, email, password string) (Result, error)
}
