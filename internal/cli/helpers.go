package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thenoetrevino/listboard/internal/board"
	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/types"
)

// ErrAmbiguous is returned when a reference matches more than one item
var ErrAmbiguous = errors.New("reference matches more than one item")

// ResolveColumn finds a column by key, or by title ignoring case
func ResolveColumn(b *board.Store, ref string) (models.Column, error) {
	ref = strings.TrimSpace(ref)
	if col, ok := b.Column(types.ColumnID(ref)); ok {
		return col, nil
	}

	var matches []models.Column
	for _, col := range b.Columns() {
		if strings.EqualFold(col.Title, ref) {
			matches = append(matches, col)
		}
	}
	switch len(matches) {
	case 0:
		return models.Column{}, fmt.Errorf("%w: %q", board.ErrColumnNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Column{}, fmt.Errorf("%w: column %q", ErrAmbiguous, ref)
	}
}

// ResolveTask finds a task by key or by a unique key prefix
func ResolveTask(b *board.Store, ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Task{}, fmt.Errorf("%w: empty reference", board.ErrTaskNotFound)
	}
	if task, ok := b.Task(types.TaskID(ref)); ok {
		return task, nil
	}

	var matches []models.Task
	for _, col := range b.Columns() {
		for _, task := range b.Tasks(col.ID) {
			if strings.HasPrefix(string(task.ID), ref) {
				matches = append(matches, task)
			}
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("%w: %q", board.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("%w: task %q", ErrAmbiguous, ref)
	}
}

// ColumnTitle returns a column's title, or its key when it is gone
func ColumnTitle(b *board.Store, id types.ColumnID) string {
	if col, ok := b.Column(id); ok {
		return col.Title
	}
	return string(id)
}
