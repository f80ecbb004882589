package user

import (
	"errors"
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	t.Parallel()

	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}
	account := func(name, login string) func() (*user.User, error) {
		return func() (*user.User, error) { return &user.User{Name: name, Username: login}, nil }
	}
	noAccount := func() (*user.User, error) { return nil, errors.New("no passwd entry") }

	tests := []struct {
		name    string
		current func() (*user.User, error)
		env     map[string]string
		want    string
	}{
		{name: "full name", current: account("Ada Lovelace", "ada"), want: "Ada Lovelace"},
		{name: "gecos extras dropped", current: account("Ada Lovelace,,,", "ada"), want: "Ada Lovelace"},
		{name: "login when name is blank", current: account("", "alovelace"), want: "alovelace"},
		{name: "short login skipped", current: account("", "al"), env: map[string]string{"USER": "lovelace"}, want: "lovelace"},
		{name: "env without account", current: noAccount, env: map[string]string{"USERNAME": "ada-l"}, want: "ada-l"},
		{name: "long name cut", current: account("Augusta Ada King Countess of Lovelace", "ada"), want: "Augusta Ada King Countess"},
		{name: "fallback", current: noAccount, want: "Board Owner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := displayName(tt.current, env(tt.env))
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), MaxNameLength)
		})
	}
}

func TestDisplayName_AlwaysValid(t *testing.T) {
	t.Parallel()

	name := DisplayName()
	assert.GreaterOrEqual(t, len([]rune(name)), MinNameLength)
	assert.LessOrEqual(t, len([]rune(name)), MaxNameLength)
}
