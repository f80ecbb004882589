package reorder

import (
	"fmt"

	"github.com/thenoetrevino/listboard/internal/types"
)

// Drag tracks one pointer gesture. The zero value is idle.
//
// A task drag produces a change on every effective hover so the board
// reflows live; a column drag only records the hover and produces its
// change on drop.
type Drag struct {
	active *Item
	origin types.ColumnID
	over   *Item
}

// Active returns the dragged item, if any
func (d *Drag) Active() (Item, bool) {
	if d.active == nil {
		return Item{}, false
	}
	return *d.active, true
}

// Origin returns the column a dragged task was picked up from
func (d *Drag) Origin() types.ColumnID {
	return d.origin
}

// Start picks up item
func (d *Drag) Start(b Board, item Item) error {
	if d.active != nil {
		return ErrDragInProgress
	}

	switch item.Kind {
	case KindTask:
		task, ok := b.Task(types.TaskID(item.ID))
		if !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, item.ID)
		}
		d.origin = task.ColumnID
	case KindColumn:
		if _, ok := b.Column(types.ColumnID(item.ID)); !ok {
			return fmt.Errorf("%w: %s", ErrColumnNotFound, item.ID)
		}
		d.origin = types.ColumnID(item.ID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, item.Kind)
	}

	it := item
	d.active = &it
	d.over = nil
	return nil
}

// Over reports a hover on target. It returns an empty change when the hover
// is unchanged, targets the dragged item itself, or belongs to a column drag.
func (d *Drag) Over(b Board, target Item) (Change, error) {
	if d.active == nil {
		return newChange(), ErrNotDragging
	}
	if target == *d.active || (d.over != nil && *d.over == target) {
		return newChange(), nil
	}

	t := target
	d.over = &t

	if d.active.Kind != KindTask {
		return newChange(), nil
	}
	return MoveTask(b, types.TaskID(d.active.ID), target)
}

// Leave reports that the pointer left its hover target, so hovering the
// same target again counts as a new hover.
func (d *Drag) Leave() {
	d.over = nil
}

// End drops the item on target, which may be nil when released outside any
// drop area. The drag is idle afterwards regardless of the outcome.
func (d *Drag) End(b Board, target *Item) (Change, error) {
	if d.active == nil {
		return newChange(), ErrNotDragging
	}
	active := *d.active
	d.reset()

	// Task positions were already written while hovering
	if target == nil || *target == active || active.Kind != KindColumn || target.Kind != KindColumn {
		return newChange(), nil
	}
	return MoveColumn(b, types.ColumnID(active.ID), types.ColumnID(target.ID))
}

// Cancel abandons the gesture
func (d *Drag) Cancel() {
	d.reset()
}

func (d *Drag) reset() {
	d.active = nil
	d.over = nil
	d.origin = ""
}
