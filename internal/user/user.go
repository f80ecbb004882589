// Package user picks a default display name for new accounts from the
// operating system account.
package user

import (
	"os"
	"os/user"
	"strings"
	"unicode/utf8"
)

// Display names must fit the account rules enforced at registration
const (
	MinNameLength = 3
	MaxNameLength = 25

	fallbackName = "Board Owner"
)

// DisplayName returns the OS account's full name, its login, or the USER
// variable, whichever first makes a valid display name. Long names are
// cut to MaxNameLength.
func DisplayName() string {
	return displayName(user.Current, os.Getenv)
}

func displayName(current func() (*user.User, error), getenv func(string) string) string {
	var candidates []string
	if u, err := current(); err == nil {
		candidates = append(candidates, u.Name, u.Username)
	}
	candidates = append(candidates, getenv("USER"), getenv("USERNAME"))

	for _, c := range candidates {
		// GECOS fields carry extra comma separated entries
		if i := strings.IndexByte(c, ','); i >= 0 {
			c = c[:i]
		}
		c = strings.TrimSpace(c)
		if utf8.RuneCountInString(c) < MinNameLength {
			continue
		}
		if utf8.RuneCountInString(c) > MaxNameLength {
			c = strings.TrimSpace(string([]rune(c)[:MaxNameLength]))
		}
		return c
	}
	return fallbackName
}
