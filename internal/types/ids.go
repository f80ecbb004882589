package types

// ID types give each string key a domain meaning. Keys are minted by the
// realtime store, so they are opaque strings rather than database integers.

// UserID identifies the owner of a board
type UserID string

// ColumnID identifies a column on a user's board
type ColumnID string

// TaskID identifies a task on a user's board
type TaskID string

// CommentID identifies a comment attached to a task
type CommentID string

// String returns the raw key
func (id UserID) String() string { return string(id) }

// String returns the raw key
func (id ColumnID) String() string { return string(id) }

// String returns the raw key
func (id TaskID) String() string { return string(id) }

// String returns the raw key
func (id CommentID) String() string { return string(id) }

// IsZero reports whether the id is unset
func (id ColumnID) IsZero() bool { return id == "" }
