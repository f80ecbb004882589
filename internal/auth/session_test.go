package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/models"
)

func TestSession_LoginPersistsAndLogoutClears(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newProvider(t)
	path := filepath.Join(t.TempDir(), "data", "session")

	reg, err := p.Register(ctx, "ada@example.com", "correct horse", "Ada")
	require.NoError(t, err)

	s, err := OpenSession(ctx, path, p)
	require.NoError(t, err)
	_, ok := s.CurrentUser()
	assert.False(t, ok)
	_, err = s.Token()
	assert.ErrorIs(t, err, ErrNotSignedIn)

	var states []*models.User
	unsubscribe := s.OnAuthStateChanged(func(u *models.User) { states = append(states, u) })
	defer unsubscribe()

	user, err := s.Login(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A later command sees the same session
	reopened, err := OpenSession(ctx, path, p)
	require.NoError(t, err)
	current, ok := reopened.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Ada", current.Name)

	require.NoError(t, s.Logout())
	require.NoError(t, s.Logout())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.Len(t, states, 4)
	assert.Nil(t, states[0], "fires immediately with signed-out state")
	assert.Equal(t, reg.User.ID, states[1].ID)
	assert.Nil(t, states[2])
	assert.Nil(t, states[3])
}

func TestSession_RejectsInvalidToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newProvider(t)
	path := filepath.Join(t.TempDir(), "session")

	s, err := OpenSession(ctx, path, p)
	require.NoError(t, err)
	_, err = s.Login(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOpenSession_IgnoresStaleFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newProvider(t)
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"expired.or.forged"}`), 0o600))

	s, err := OpenSession(ctx, path, p)
	require.NoError(t, err)
	_, ok := s.CurrentUser()
	assert.False(t, ok)
}
