package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/thenoetrevino/listboard/internal/testutil"
)

func newProvider(t *testing.T, opts ...LocalOption) *LocalProvider {
	t.Helper()
	opts = append([]LocalOption{WithBcryptCost(bcrypt.MinCost)}, opts...)
	p, err := NewLocalProvider(testutil.SetupTestDB(t), []byte("test-secret"), opts...)
	require.NoError(t, err)
	return p
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newProvider(t)

	reg, err := p.Register(ctx, "ada@example.com", "correct horse", "Ada")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "ada@example.com", reg.User.Email)

	claims, err := p.Verify(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, "Ada", claims.Name)

	// Emails are matched case-insensitively
	login, err := p.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.False(t, login.User.CreatedAt.IsZero())
}

func TestLogin_InvalidCredential(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newProvider(t)

	_, err := p.Register(ctx, "ada@example.com", "correct horse", "Ada")
	require.NoError(t, err)

	_, err = p.Login(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = p.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.Equal(t, "invalid credential", ErrInvalidCredential.Error())
	assert.Equal(t, MsgInvalidCredential, Message(err))
	assert.Empty(t, Message(ErrWeakPassword))
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		user     string
		want     error
	}{
		{"bad email", "not-an-email", "longenough", "Ada", ErrInvalidEmail},
		{"short password", "a@b.co", "short", "Ada", ErrWeakPassword},
		{"short name", "a@b.co", "longenough", "Al", ErrInvalidName},
		{"long name", "a@b.co", "longenough", strings.Repeat("n", 26), ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := newProvider(t)
			_, err := p.Register(context.Background(), tt.email, tt.password, tt.user)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestRegister_EmailInUse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newProvider(t)

	_, err := p.Register(ctx, "ada@example.com", "correct horse", "Ada")
	require.NoError(t, err)
	_, err = p.Register(ctx, "Ada@Example.com", "another pass", "Ada Two")
	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.Equal(t, "This email is already in use. Please log in.", Message(err))
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newProvider(t, WithTokenTTL(time.Minute))

	reg, err := p.Register(ctx, "ada@example.com", "correct horse", "Ada")
	require.NoError(t, err)

	// Expired
	p.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = p.Verify(ctx, reg.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	p.now = time.Now

	// Signed with another secret
	other, err := NewLocalProvider(testutil.SetupTestDB(t), []byte("other"))
	require.NoError(t, err)
	_, err = other.Verify(ctx, reg.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Wrong algorithm
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": "x", "iss": issuer})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = p.Verify(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = p.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewLocalProvider_RequiresSecret(t *testing.T) {
	t.Parallel()
	_, err := NewLocalProvider(testutil.SetupTestDB(t), nil)
	assert.Error(t, err)
}
