package reorder

import "errors"

var (
	// ErrDragInProgress is returned when a gesture starts while another is active
	ErrDragInProgress = errors.New("a drag is already in progress")

	// ErrNotDragging is returned by Over and End when no gesture is active
	ErrNotDragging = errors.New("no drag in progress")

	// ErrTaskNotFound is returned when a task id is not on the board
	ErrTaskNotFound = errors.New("task not found")

	// ErrColumnNotFound is returned when a column id is not on the board
	ErrColumnNotFound = errors.New("column not found")

	// ErrUnknownKind is returned for items that are neither tasks nor columns
	ErrUnknownKind = errors.New("unknown item kind")
)
