package reorder

import (
	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/types"
)

// Change holds only the values a move actually alters
type Change struct {
	TaskOrders   map[types.TaskID]int
	TaskColumns  map[types.TaskID]types.ColumnID
	ColumnOrders map[types.ColumnID]int
}

func newChange() Change {
	return Change{
		TaskOrders:   make(map[types.TaskID]int),
		TaskColumns:  make(map[types.TaskID]types.ColumnID),
		ColumnOrders: make(map[types.ColumnID]int),
	}
}

// Empty reports whether the change alters nothing
func (c Change) Empty() bool {
	return len(c.TaskOrders) == 0 && len(c.TaskColumns) == 0 && len(c.ColumnOrders) == 0
}

// Updates converts the change into field writes for one atomic store update
func (c Change) Updates(uid types.UserID) realtime.Updates {
	u := make(realtime.Updates, len(c.TaskOrders)+len(c.TaskColumns)+len(c.ColumnOrders))
	for id, order := range c.TaskOrders {
		u[realtime.FieldPath(uid, realtime.Tasks, string(id), "order")] = order
	}
	for id, colID := range c.TaskColumns {
		u[realtime.FieldPath(uid, realtime.Tasks, string(id), "columnId")] = string(colID)
	}
	for id, order := range c.ColumnOrders {
		u[realtime.FieldPath(uid, realtime.Columns, string(id), "order")] = order
	}
	return u
}

// renumberTasks ranks tasks by slice position and records any rank that moved
func (c Change) renumberTasks(tasks []models.Task) {
	for i, t := range tasks {
		if t.Order != i {
			c.TaskOrders[t.ID] = i
		}
	}
}

func (c Change) renumberColumns(cols []models.Column) {
	for i, col := range cols {
		if col.Order != i {
			c.ColumnOrders[col.ID] = i
		}
	}
}
