package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/types"
)

// AddComment attaches a comment to a task
func (s *Store) AddComment(ctx context.Context, taskID types.TaskID, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, s.warn(MsgEmptyComment, ErrEmptyComment)
	}
	if _, ok := s.Task(taskID); !ok {
		return models.Comment{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	key := s.db.NewKey()
	comment := models.Comment{
		ID:        types.CommentID(key),
		TaskID:    taskID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	err := s.commit(ctx, realtime.Updates{
		realtime.RecordPath(s.uid, realtime.Comments, key): comment,
	})
	if err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// DeleteComment removes one comment
func (s *Store) DeleteComment(ctx context.Context, id types.CommentID) error {
	s.mu.Lock()
	found := false
	for _, c := range s.comments {
		if c.ID == id {
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: %s", ErrCommentNotFound, id)
	}
	return s.commit(ctx, realtime.Updates{
		realtime.RecordPath(s.uid, realtime.Comments, string(id)): nil,
	})
}
