package models

// ============================================================================
// COLUMN CONSTANTS
// ============================================================================

// MaxTitleLength bounds column titles
const MaxTitleLength = 50

// Default column titles, seeded in this order on first login
const (
	ColumnTodo  = "Todo"
	ColumnDoing = "Doing"
	ColumnDone  = "Done"
)

// DefaultColumnTitles lists the seeded columns by order
var DefaultColumnTitles = []string{ColumnTodo, ColumnDoing, ColumnDone}

// ============================================================================
// TASK CONSTANTS
// ============================================================================

// NewTaskContentFormat names tasks created without content
const NewTaskContentFormat = "New Task %d"
