package models

import (
	"time"

	"github.com/thenoetrevino/listboard/internal/types"
)

// Comment is a note attached to a task
type Comment struct {
	ID        types.CommentID `json:"id"`
	TaskID    types.TaskID    `json:"taskId"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"createdAt"`
}

// GetID returns the comment key (used by quiet CLI output)
func (c Comment) GetID() string { return string(c.ID) }
