package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/thenoetrevino/listboard/internal/models"
)

// sessionFile is the on-disk form of a signed-in session
type sessionFile struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Session remembers the signed-in user between commands
type Session struct {
	path     string
	verifier Verifier

	mu        sync.Mutex
	current   *sessionFile
	listeners map[int]func(*models.User)
	nextID    int
}

// OpenSession loads the session at path. A missing, unreadable or expired
// session leaves the user signed out.
func OpenSession(ctx context.Context, path string, verifier Verifier) (*Session, error) {
	s := &Session{
		path:      path,
		verifier:  verifier,
		listeners: make(map[int]func(*models.User)),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var stored sessionFile
	if err := json.Unmarshal(data, &stored); err != nil || stored.Token == "" {
		return s, nil
	}
	if _, err := verifier.Verify(ctx, stored.Token); err != nil {
		return s, nil
	}
	s.current = &stored
	return s, nil
}

// CurrentUser returns the signed-in user
func (s *Session) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.User{}, false
	}
	return s.current.User, true
}

// Token returns the signed-in user's bearer token
func (s *Session) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return "", ErrNotSignedIn
	}
	return s.current.Token, nil
}

// Login verifies token and persists it as the current session
func (s *Session) Login(ctx context.Context, token string) (models.User, error) {
	claims, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	next := &sessionFile{Token: token, User: claims.User()}
	data, err := json.Marshal(next)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return models.User{}, fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return models.User{}, fmt.Errorf("failed to save session: %w", err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		return models.User{}, fmt.Errorf("failed to protect session: %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	user := next.User
	s.fire(&user)
	return user, nil
}

// Logout forgets the current session
func (s *Session) Logout() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.fire(nil)
	return nil
}

// OnAuthStateChanged calls fn now with the current user (nil when signed
// out) and again after every login and logout.
func (s *Session) OnAuthStateChanged(fn func(user *models.User)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	var user *models.User
	if s.current != nil {
		u := s.current.User
		user = &u
	}
	s.mu.Unlock()

	fn(user)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) fire(user *models.User) {
	s.mu.Lock()
	fns := make([]func(*models.User), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}
