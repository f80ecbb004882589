package models

import (
	"time"

	"github.com/thenoetrevino/listboard/internal/types"
)

// User is an authenticated board owner
type User struct {
	ID        types.UserID `json:"id"`
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"createdAt"`
}

// GetID returns the user key (used by quiet CLI output)
func (u User) GetID() string { return string(u.ID) }
