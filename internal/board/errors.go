package board

import (
	"errors"

	"github.com/thenoetrevino/listboard/internal/reorder"
)

var (
	ErrEmptyTitle       = errors.New("column title is empty")
	ErrTitleTooLong     = errors.New("column title is too long")
	ErrDuplicateTitle   = errors.New("column title already exists")
	ErrDefaultColumn    = errors.New("default columns cannot be deleted")
	ErrColumnNotFound   = errors.New("column not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrEmptyContent     = errors.New("task content is empty")
	ErrNoColumnSelected = errors.New("no column selected")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrEmptyComment     = errors.New("comment is empty")

	// ErrDragInProgress is returned by BeginDrag while another drag is active
	ErrDragInProgress = reorder.ErrDragInProgress

	// ErrNotDragging is returned by DragOver and EndDrag when idle
	ErrNotDragging = reorder.ErrNotDragging

	// ErrUnknownKind is returned for a drag item that is neither a task nor a column
	ErrUnknownKind = reorder.ErrUnknownKind
)

// User-facing warnings shown for rejected input
const (
	MsgEmptyTitle     = "Please add some text to the column title"
	MsgTitleTooLong   = "Column title can be at most 50 characters"
	MsgDuplicateTitle = "Column with same name already exists"
	MsgDefaultColumn  = "Default columns cannot be deleted"
	MsgEmptyContent   = "Task cannot be empty"
	MsgNoColumn       = "Please select a todo"
	MsgEmptyComment   = "Comment cannot be empty"
	MsgSaveFailed     = "Failed to save changes"
)

// IsValidation reports whether err is a rejected-input error
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrDuplicateTitle) ||
		errors.Is(err, ErrEmptyContent) ||
		errors.Is(err, ErrNoColumnSelected) ||
		errors.Is(err, ErrEmptyComment)
}

// IsNotFound reports whether err names a missing column, task or comment
func IsNotFound(err error) bool {
	return errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, reorder.ErrColumnNotFound) ||
		errors.Is(err, reorder.ErrTaskNotFound)
}
