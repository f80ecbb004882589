// Package reorder computes the order and column changes produced by moving
// tasks and columns. It never performs I/O: callers persist the returned
// Change through the realtime store.
package reorder

import (
	"sort"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/types"
)

// Board is an immutable view of a user's columns and tasks
type Board struct {
	Columns []models.Column `json:"columns"`
	Tasks   []models.Task   `json:"tasks"`
}

// SortedColumns returns the columns ranked by order. Ties fall back to id,
// so a board with duplicate ranks still renders deterministically.
func (b Board) SortedColumns() []models.Column {
	cols := make([]models.Column, len(b.Columns))
	copy(cols, b.Columns)
	sort.SliceStable(cols, func(i, j int) bool {
		if cols[i].Order != cols[j].Order {
			return cols[i].Order < cols[j].Order
		}
		return cols[i].ID < cols[j].ID
	})
	return cols
}

// TasksIn returns the tasks of one column ranked by order
func (b Board) TasksIn(columnID types.ColumnID) []models.Task {
	var tasks []models.Task
	for _, t := range b.Tasks {
		if t.ColumnID == columnID {
			tasks = append(tasks, t)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Order != tasks[j].Order {
			return tasks[i].Order < tasks[j].Order
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks
}

// Task looks up a task by id
func (b Board) Task(id types.TaskID) (models.Task, bool) {
	for _, t := range b.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Column looks up a column by id
func (b Board) Column(id types.ColumnID) (models.Column, bool) {
	for _, c := range b.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return models.Column{}, false
}

// Apply returns a copy of the board with the change applied
func (b Board) Apply(c Change) Board {
	out := Board{
		Columns: make([]models.Column, len(b.Columns)),
		Tasks:   make([]models.Task, len(b.Tasks)),
	}
	copy(out.Columns, b.Columns)
	copy(out.Tasks, b.Tasks)

	for i, col := range out.Columns {
		if order, ok := c.ColumnOrders[col.ID]; ok {
			out.Columns[i].Order = order
		}
	}
	for i, t := range out.Tasks {
		if order, ok := c.TaskOrders[t.ID]; ok {
			out.Tasks[i].Order = order
		}
		if colID, ok := c.TaskColumns[t.ID]; ok {
			out.Tasks[i].ColumnID = colID
		}
	}
	return out
}
