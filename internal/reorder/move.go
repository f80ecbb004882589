package reorder

import (
	"fmt"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/types"
)

// Kind distinguishes draggable things
type Kind string

const (
	KindTask   Kind = "task"
	KindColumn Kind = "column"
)

// Item is a draggable thing, or the thing a drag is hovering over. A column
// item used as a target means the column's task area.
type Item struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// TaskItem refers to a task
func TaskItem(id types.TaskID) Item { return Item{Kind: KindTask, ID: string(id)} }

// ColumnItem refers to a column
func ColumnItem(id types.ColumnID) Item { return Item{Kind: KindColumn, ID: string(id)} }

func (i Item) String() string { return string(i.Kind) + ":" + i.ID }

// MoveTask computes the change for hovering task taskID over target.
//
// Over a task in the same column the task takes the hovered index. Over a
// task in another column the task is inserted at the hovered index and the
// origin column closes its gap. Over a column area the task is appended.
func MoveTask(b Board, taskID types.TaskID, target Item) (Change, error) {
	change := newChange()

	task, ok := b.Task(taskID)
	if !ok {
		return change, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	switch target.Kind {
	case KindTask:
		if types.TaskID(target.ID) == taskID {
			return change, nil
		}
		over, ok := b.Task(types.TaskID(target.ID))
		if !ok {
			return change, fmt.Errorf("%w: %s", ErrTaskNotFound, target.ID)
		}
		dest := b.TasksIn(over.ColumnID)
		to := indexOfTask(dest, over.ID)

		if over.ColumnID == task.ColumnID {
			change.renumberTasks(arrayMove(dest, indexOfTask(dest, taskID), to))
			return change, nil
		}
		moveAcross(change, b, task, over.ColumnID, to)
		return change, nil

	case KindColumn:
		colID := types.ColumnID(target.ID)
		if _, ok := b.Column(colID); !ok {
			return change, fmt.Errorf("%w: %s", ErrColumnNotFound, colID)
		}
		dest := b.TasksIn(colID)
		if colID == task.ColumnID {
			change.renumberTasks(arrayMove(dest, indexOfTask(dest, taskID), len(dest)-1))
			return change, nil
		}
		moveAcross(change, b, task, colID, len(dest))
		return change, nil
	}

	return change, fmt.Errorf("%w: %q", ErrUnknownKind, target.Kind)
}

// moveAcross lifts task out of its column and inserts it at index at of dest
func moveAcross(change Change, b Board, task models.Task, dest types.ColumnID, at int) {
	origin := b.TasksIn(task.ColumnID)
	from := indexOfTask(origin, task.ID)
	origin = append(origin[:from:from], origin[from+1:]...)
	change.renumberTasks(origin)

	into := b.TasksIn(dest)
	if at > len(into) {
		at = len(into)
	}
	moved := task
	moved.Order = -1 // force a recorded rank
	into = append(into[:at:at], append([]models.Task{moved}, into[at:]...)...)
	change.renumberTasks(into)
	change.TaskColumns[task.ID] = dest
}

// MoveColumn places columnID at the index of overColumnID and renumbers
// every column to its position.
func MoveColumn(b Board, columnID, overColumnID types.ColumnID) (Change, error) {
	change := newChange()
	if columnID == overColumnID {
		return change, nil
	}

	cols := b.SortedColumns()
	from, to := indexOfColumn(cols, columnID), indexOfColumn(cols, overColumnID)
	if from < 0 {
		return change, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}
	if to < 0 {
		return change, fmt.Errorf("%w: %s", ErrColumnNotFound, overColumnID)
	}

	change.renumberColumns(arrayMove(cols, from, to))
	return change, nil
}

// arrayMove returns a copy of s with the element at from moved to index to
func arrayMove[T any](s []T, from, to int) []T {
	out := make([]T, 0, len(s))
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)
	v := s[from]
	out = append(out[:to], append([]T{v}, out[to:]...)...)
	return out
}

func indexOfTask(tasks []models.Task, id types.TaskID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func indexOfColumn(cols []models.Column, id types.ColumnID) int {
	for i, c := range cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}
