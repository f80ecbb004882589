package models

import "github.com/thenoetrevino/listboard/internal/types"

// Task is a single to-do item. Order is its rank inside ColumnID.
type Task struct {
	ID          types.TaskID   `json:"id"`
	ColumnID    types.ColumnID `json:"columnId"`
	Content     string         `json:"content"`
	Description string         `json:"description,omitempty"`
	Order       int            `json:"order"`
}

// GetID returns the task key (used by quiet CLI output)
func (t Task) GetID() string { return string(t.ID) }
