package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"

	"github.com/thenoetrevino/listboard/internal/types"
)

// FirebaseVerifier accepts Firebase ID tokens. Accounts are created and
// signed in by the Firebase client SDKs, so only verification happens here.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier gets an auth client from the shared Firebase app
func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// Verify checks the ID token's signature, audience and expiry
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Claims, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := Claims{UserID: types.UserID(tok.UID)}
	if email, ok := tok.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		claims.Name = name
	}
	return claims, nil
}

var _ Verifier = (*FirebaseVerifier)(nil)
