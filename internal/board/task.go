package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/types"
)

// CreateTask appends a placeholder task named after the board's task count
func (s *Store) CreateTask(ctx context.Context, columnID types.ColumnID) (models.Task, error) {
	if columnID.IsZero() {
		return models.Task{}, s.warn(MsgNoColumn, ErrNoColumnSelected)
	}
	return s.insertTask(ctx, columnID, "")
}

// AddTask appends a task with the given content
func (s *Store) AddTask(ctx context.Context, columnID types.ColumnID, content string) (models.Task, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Task{}, s.warn(MsgEmptyContent, ErrEmptyContent)
	}
	if columnID.IsZero() {
		return models.Task{}, s.warn(MsgNoColumn, ErrNoColumnSelected)
	}
	return s.insertTask(ctx, columnID, content)
}

// insertTask appends a task to the end of a column. Empty content gets the
// placeholder name.
func (s *Store) insertTask(ctx context.Context, columnID types.ColumnID, content string) (models.Task, error) {
	key := s.db.NewKey()

	var task models.Task
	err := s.commitWith(ctx, func() (realtime.Updates, error) {
		b := s.boardLocked()
		if _, ok := b.Column(columnID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
		}
		if content == "" {
			content = fmt.Sprintf(models.NewTaskContentFormat, len(s.tasks)+1)
		}
		task = models.Task{
			ID:       types.TaskID(key),
			ColumnID: columnID,
			Content:  content,
			Order:    len(b.TasksIn(columnID)),
		}
		return realtime.Updates{
			realtime.RecordPath(s.uid, realtime.Tasks, key): task,
		}, nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTask replaces a task's content as given
func (s *Store) UpdateTask(ctx context.Context, id types.TaskID, content string) error {
	if _, ok := s.Task(id); !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return s.commit(ctx, realtime.Updates{
		realtime.FieldPath(s.uid, realtime.Tasks, string(id), "content"): content,
	})
}

// UpdateTaskDescription sets a task's long-form description. An empty
// description removes the field.
func (s *Store) UpdateTaskDescription(ctx context.Context, id types.TaskID, description string) error {
	if _, ok := s.Task(id); !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	var value any
	if strings.TrimSpace(description) != "" {
		value = description
	}
	return s.commit(ctx, realtime.Updates{
		realtime.FieldPath(s.uid, realtime.Tasks, string(id), "description"): value,
	})
}

// DeleteTask removes a task and its comments, closing the gap it leaves
func (s *Store) DeleteTask(ctx context.Context, id types.TaskID) error {
	return s.commitWith(ctx, func() (realtime.Updates, error) {
		b := s.boardLocked()
		task, ok := b.Task(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}

		updates := realtime.Updates{
			realtime.RecordPath(s.uid, realtime.Tasks, string(id)): nil,
		}
		for _, c := range s.comments {
			if c.TaskID == id {
				updates[realtime.RecordPath(s.uid, realtime.Comments, string(c.ID))] = nil
			}
		}

		order := 0
		for _, t := range b.TasksIn(task.ColumnID) {
			if t.ID == id {
				continue
			}
			if t.Order != order {
				updates[realtime.FieldPath(s.uid, realtime.Tasks, string(t.ID), "order")] = order
			}
			order++
		}
		return updates, nil
	})
}

// DeleteAllTasks empties a column in one atomic update
func (s *Store) DeleteAllTasks(ctx context.Context, columnID types.ColumnID) error {
	if _, ok := s.Column(columnID); !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}

	updates, err := s.taskRemovals(ctx, func(t models.Task) bool { return t.ColumnID == columnID })
	if err != nil {
		return err
	}
	return s.commit(ctx, updates)
}
