package models

import "github.com/thenoetrevino/listboard/internal/types"

// Column is a named, ordered bucket of tasks
type Column struct {
	ID        types.ColumnID `json:"id"`
	Title     string         `json:"title"`
	IsDefault bool           `json:"isDefault,omitempty"`
	Order     int            `json:"order"`
}

// GetID returns the column key (used by quiet CLI output)
func (c Column) GetID() string { return string(c.ID) }
